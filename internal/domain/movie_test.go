package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMovie_TextRendering(t *testing.T) {
	cases := []struct {
		name      string
		m         Movie
		rate      string
		wantWatch string
	}{
		{"都有值", Movie{Rate: Some(7.5), WantWatch: Some(88)}, "7.5", "88%"},
		{"整数评分保留一位小数", Movie{Rate: Some(8.0), WantWatch: Some(0)}, "8.0", "0%"},
		{"都缺失", Movie{}, Placeholder, Placeholder},
		{"只有评分", Movie{Rate: Some(4.25)}, "4.25", Placeholder},
		{"只有想看", Movie{WantWatch: Some(100)}, Placeholder, "100%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.rate, tc.m.RateText())
			require.Equal(t, tc.wantWatch, tc.m.WantWatchText())
		})
	}
}

func TestMovie_String(t *testing.T) {
	require.Equal(t, "鬼靈精", Movie{TitleCh: "鬼靈精", TitleEn: "Krampus"}.String())
}

func TestOpt_JSON(t *testing.T) {
	b, err := json.Marshal(Movie{TitleCh: "x", Rate: Some(7.5)})
	require.NoError(t, err)
	require.Contains(t, string(b), `"rate":7.5`)
	require.Contains(t, string(b), `"want_watch":null`)
}

func TestOpt_GetAndAbsent(t *testing.T) {
	v, ok := Some(3).Get()
	require.True(t, ok)
	require.Equal(t, 3, v)

	a := Absent[float64]()
	require.True(t, a.IsAbsent())
	_, ok = a.Get()
	require.False(t, ok)

	var zero Opt[int]
	require.Equal(t, a.IsAbsent(), zero.IsAbsent(), "零值应等同 Absent")
}

func TestParseListingKind(t *testing.T) {
	k, ok := ParseListingKind(" Playing ")
	require.True(t, ok)
	require.Equal(t, KindPlaying, k)
	require.Equal(t, "現正熱映", k.Label())

	k, ok = ParseListingKind("coming")
	require.True(t, ok)
	require.Equal(t, "即將上映", k.Label())

	_, ok = ParseListingKind("comming")
	require.False(t, ok)
}
