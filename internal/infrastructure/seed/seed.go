// Package seed loads the default fixture data: one admin, one test user, and
// a small clothing catalog. Seeding is idempotent: records whose unique key
// already exists are skipped.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

type fixtureUser struct {
	Username string
	Email    string
	Password string
	Role     string
}

var defaultUsers = []fixtureUser{
	{Username: "admin", Email: "admin@vestuario.dev", Password: "Admin123!", Role: domain.RoleAdmin},
	{Username: "usertest", Email: "usertest@vestuario.dev", Password: "User123!", Role: domain.RoleUser},
}

var defaultProducts = []domain.Product{
	{
		Name:        "Camisa Formal Blanca",
		Description: "Camisa de algodón para ocasiones formales, corte clásico",
		Price:       45000,
		Category:    "Camisas",
		Stock:       50,
		Code:        "CAM-001",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"Blanco", "Azul", "Negro"},
		Images:      []domain.ProductImage{{URL: "/images/camisa-formal-blanca.jpg", Alt: "Camisa Formal Blanca", IsPrimary: true}},
	},
	{
		Name:        "Camisa Casual Rayas",
		Description: "Camisa casual con rayas verticales para el día a día",
		Price:       35000,
		Category:    "Camisas",
		Stock:       50,
		Code:        "CAM-002",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"Azul y Blanco", "Rojo y Blanco"},
		Images:      []domain.ProductImage{{URL: "/images/camisa-casual-rayas.jpg", Alt: "Camisa Casual Rayas", IsPrimary: true}},
	},
	{
		Name:        "Camisa Polo Deportiva",
		Description: "Camisa polo de algodón piqué para actividades deportivas",
		Price:       28000,
		Category:    "Camisas",
		Stock:       50,
		Code:        "CAM-003",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"Blanco", "Negro", "Azul", "Verde"},
		Images:      []domain.ProductImage{{URL: "/images/camisa-polo-deportiva.jpg", Alt: "Camisa Polo Deportiva", IsPrimary: true}},
	},
	{
		Name:        "Pantalón Formal Negro",
		Description: "Pantalón de vestir con corte recto",
		Price:       55000,
		Category:    "Pantalones",
		Stock:       40,
		Code:        "PAN-001",
		Sizes:       []string{"28", "30", "32", "34", "36"},
		Colors:      []string{"Negro", "Gris"},
		Images:      []domain.ProductImage{{URL: "/images/pantalon-formal-negro.jpg", Alt: "Pantalón Formal Negro", IsPrimary: true}},
	},
	{
		Name:        "Jean Clásico Azul",
		Description: "Jean de mezclilla con ajuste regular",
		Price:       48000,
		Category:    "Pantalones",
		Stock:       60,
		Code:        "PAN-002",
		Sizes:       []string{"28", "30", "32", "34", "36"},
		Colors:      []string{"Azul"},
		Images:      []domain.ProductImage{{URL: "/images/jean-clasico-azul.jpg", Alt: "Jean Clásico Azul", IsPrimary: true}},
	},
}

// Run inserts the fixture users and products, skipping existing records.
func Run(ctx context.Context, users ports.UserRepository, products ports.ProductRepository, bcryptCost int, log zerolog.Logger) error {
	now := time.Now().UTC()

	for _, fu := range defaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(fu.Password), bcryptCost)
		if err != nil {
			return err
		}

		_, err = users.Create(ctx, &domain.User{
			Username:     fu.Username,
			Email:        fu.Email,
			PasswordHash: string(hash),
			Role:         fu.Role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentity):
			log.Debug().Str("username", fu.Username).Msg("seed user already exists")
		case err != nil:
			return err
		default:
			log.Info().Str("username", fu.Username).Str("role", fu.Role).Msg("seed user created")
		}
	}

	for i := range defaultProducts {
		p := defaultProducts[i]
		p.IsActive = true
		p.CreatedAt = now
		p.UpdatedAt = now

		_, err := products.Create(ctx, &p)
		switch {
		case errors.Is(err, domain.ErrDuplicateProduct):
			log.Debug().Str("code", p.Code).Msg("seed product already exists")
		case err != nil:
			return err
		default:
			log.Info().Str("code", p.Code).Msg("seed product created")
		}
	}

	return nil
}
