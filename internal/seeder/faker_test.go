package seeder

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
)

func TestDataGeneratorShapes(t *testing.T) {
	g := NewDataGenerator(stats.NewSampler(1))
	emailRe := regexp.MustCompile(`^[a-z]+\d+@[a-z.]+$`)
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		name := g.CompanyName()
		assert.NotEmpty(t, name)
		assert.LessOrEqual(t, len(name), 35)

		assert.Len(t, g.CountryCode(), 2)
		assert.NotEmpty(t, g.City())

		street := g.StreetAddress()
		assert.LessOrEqual(t, len(street), 35)

		email := g.Email()
		assert.Regexp(t, emailRe, email)
		assert.False(t, seen[email], "duplicate email %s", email)
		seen[email] = true
	}
}

func TestDataGeneratorReproducible(t *testing.T) {
	a := NewDataGenerator(stats.NewSampler(99))
	b := NewDataGenerator(stats.NewSampler(99))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.CompanyName(), b.CompanyName())
		assert.Equal(t, a.StreetAddress(), b.StreetAddress())
	}
}
