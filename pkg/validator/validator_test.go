package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Dra. María García", "dra-maria-garcia"},
		{"José Ángel Núñez", "jose-angel-nunez"},
		{"  Juan   Pérez  ", "juan-perez"},
		{"Clínica 24/7", "clinica-24-7"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), "Slugify(%q)", tt.name)
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, v := range valid {
		assert.True(t, ValidateTimeOfDay(v), v)
	}

	invalid := []string{"24:00", "9:30", "09:60", "0930", "09:30:00"}
	for _, v := range invalid {
		assert.False(t, ValidateTimeOfDay(v), v)
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+5215512345678", FormatPhone("52 (155) 1234-5678"))
	assert.Equal(t, "+5215512345678", FormatPhone("+52 155 1234 5678"))
	assert.Equal(t, "", FormatPhone(""))
}
