package seed

import (
	"fmt"
	"log"

	"lab-reservation-backend/config"
	"lab-reservation-backend/internal/credential"
	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/parse"
)

// Apply registers the configured users and provisions the configured devices
// on m. It stops at the first invalid entry.
func Apply(m *lab.Manager, cfg config.SeedConfig) error {
	for _, u := range cfg.Users {
		rank, err := parse.Rank(u.Rank)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		hash, err := credential.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for seed user %q: %w", u.Username, err)
		}
		if _, err := m.RegisterUser(u.Username, hash, rank); err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}

	for _, d := range cfg.Devices {
		variant, err := parse.Variant(d.Variant)
		if err != nil {
			return fmt.Errorf("seed device %q: %w", d.Name, err)
		}
		m.AddDevice(variant, d.Name, d.AllowStudent)
	}

	log.Printf("Seeded %d users and %d devices", len(cfg.Users), len(cfg.Devices))
	return nil
}
