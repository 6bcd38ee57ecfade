package seatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var classifyNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func mustDOB(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DOBLayout, s)
	if err != nil {
		t.Fatalf("parse dob %q: %v", s, err)
	}
	return d
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		name string
		dob  string
		want AgeBand
	}{
		{"five year old", "2021-03-01", BandChild},
		{"eleven year old", "2014-08-20", BandChild},
		{"twelfth birthday today", "2014-06-15", BandAdult},
		{"day before twelfth birthday", "2014-06-16", BandChild},
		{"thirty year old", "1996-01-10", BandAdult},
		{"fifty nine year old", "1966-07-01", BandAdult},
		{"sixtieth birthday today", "1966-06-15", BandSenior},
		{"eighty year old", "1946-02-02", BandSenior},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(mustDOB(t, tc.dob), classifyNow))
		})
	}
}

func TestIsChildIsSeniorAgainstFixedNow(t *testing.T) {
	assert.True(t, IsChild(mustDOB(t, "2020-01-01"), classifyNow))
	assert.False(t, IsChild(mustDOB(t, "2000-01-01"), classifyNow))
	assert.True(t, IsSenior(mustDOB(t, "1960-01-01"), classifyNow))
	assert.False(t, IsSenior(mustDOB(t, "1970-01-01"), classifyNow))
}
