package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSource(t *testing.T) {
	cases := []struct {
		name    string
		country string
		manual  string
		auto    bool
		want    string
	}{
		{"US maps to CONUS", "US", SourceEurope, true, SourceCONUS},
		{"Mexico", "MX", SourceCONUS, true, SourceMexico},
		{"Canada", "CA", SourceCONUS, true, SourceCanada},
		{"China", "CN", SourceCONUS, true, SourceChina},
		{"Germany maps to Europe", "DE", SourceCONUS, true, SourceEurope},
		{"Norway maps to Europe", "NO", SourceCONUS, true, SourceEurope},
		{"unmapped country falls back to manual", "JP", SourceChina, true, SourceChina},
		{"empty country falls back to manual", "", SourceCONUS, true, SourceCONUS},
		{"manual mode always wins", "US", SourceEurope, false, SourceEurope},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectSource(tc.country, tc.manual, tc.auto))
		})
	}
}
