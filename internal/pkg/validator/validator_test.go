package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", "", "2023/01/01"}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "08:00", "12:59", "23:59"}
	invalid := []string{"24:00", "8:00", "08:60", "08:00:00", "", "noon"}
	for _, s := range valid {
		assert.True(t, IsValidClock(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsValidClock(s), s)
	}
}

func TestIsValidSalaryMonth(t *testing.T) {
	month, ok := IsValidSalaryMonth("2026-02")
	assert.True(t, ok)
	assert.Equal(t, 2026, month.Year())
	assert.Equal(t, 1, month.Day())

	for _, s := range []string{"2026-13", "2026-2", "02-2026", ""} {
		_, ok := IsValidSalaryMonth(s)
		assert.False(t, ok, s)
	}
}

func TestIsNonNegativeAmount(t *testing.T) {
	d, ok := IsNonNegativeAmount("37.50")
	assert.True(t, ok)
	assert.Equal(t, "37.5", d.String())

	_, ok = IsNonNegativeAmount("-1")
	assert.False(t, ok)
	_, ok = IsNonNegativeAmount("abc")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"mid-month", "end-of-month"}
	if !IsInSlice("mid-month", slice) {
		t.Errorf("IsInSlice(mid-month) = false, want true")
	}
	if IsInSlice("weekly", slice) {
		t.Errorf("IsInSlice(weekly) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("office_start", "office_start must be in HH:MM format")
	errs.Add("grace_period", "grace_period must not be negative")

	err := errs.Err()
	assert.Error(t, err)
	assert.Equal(t, "office_start: office_start must be in HH:MM format; grace_period: grace_period must not be negative", err.Error())
	assert.Equal(t, map[string]string{
		"office_start": "office_start must be in HH:MM format",
		"grace_period": "grace_period must not be negative",
	}, errs.ToMap())
}
