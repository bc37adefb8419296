package seeder

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
)

var (
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Thompson", "White", "Harris",
		"Clark", "Lewis", "Walker", "Hall", "Young", "King", "Wright", "Schmidt",
		"Muller", "Rossi", "Dubois", "Tanaka", "Novak", "Kowalski", "Jensen",
	}
	companySuffixes = []string{"Inc", "LLC", "Ltd", "Group", "PLC", "and Sons", "GmbH", "Corp"}
	countryCodes    = []string{
		"US", "DE", "GB", "FR", "IT", "ES", "NL", "BE", "CH", "AT", "PL", "SE", "DK",
		"NO", "FI", "IE", "PT", "CZ", "CN", "JP", "KR", "IN", "SG", "AU", "CA", "MX", "BR",
	}
	cities = []string{
		"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton",
		"Fairview", "Salem", "Madison", "Georgetown", "Arlington", "Ashland", "Dover",
		"Oxford", "Jackson", "Burlington", "Manchester", "Milton", "Newport", "Auburn",
		"Hamburg", "Lyon", "Turin", "Porto", "Utrecht", "Osaka", "Pune", "Perth",
	}
	streetNames = []string{
		"Main", "Oak", "Pine", "Maple", "Cedar", "Elm", "Washington", "Lake", "Hill",
		"Park", "View", "Sunset", "Church", "Mill", "River", "Spring", "Highland", "Forest",
	}
	streetSuffixes = []string{"Street", "Avenue", "Road", "Lane", "Drive", "Court", "Way", "Place"}
	mailDomains    = []string{"example.com", "example.net", "example.org", "mail.com"}
)

// DataGenerator fabricates master-data text (company names, addresses,
// contacts). It draws from the run's sampler so output is reproducible.
type DataGenerator struct {
	rand    *stats.Sampler
	counter int
}

func NewDataGenerator(s *stats.Sampler) *DataGenerator {
	return &DataGenerator{rand: s}
}

func (g *DataGenerator) pick(items []string) string {
	return stats.Choice(g.rand, items)
}

func (g *DataGenerator) CompanyName() string {
	switch g.rand.Intn(3) {
	case 0:
		return g.pick(lastNames) + " " + g.pick(companySuffixes)
	case 1:
		return g.pick(lastNames) + "-" + g.pick(lastNames)
	default:
		return fmt.Sprintf("%s, %s and %s", g.pick(lastNames), g.pick(lastNames), g.pick(lastNames))
	}
}

func (g *DataGenerator) CountryCode() string {
	return g.pick(countryCodes)
}

func (g *DataGenerator) City() string {
	return g.pick(cities)
}

func (g *DataGenerator) StreetAddress() string {
	return fmt.Sprintf("%d %s %s", g.rand.IntBetween(1, 9999), g.pick(streetNames), g.pick(streetSuffixes))
}

// Email returns a unique contact address.
func (g *DataGenerator) Email() string {
	g.counter++
	user := strings.ToLower(g.pick(lastNames))
	return fmt.Sprintf("%s%d@%s", user, g.counter, g.pick(mailDomains))
}
