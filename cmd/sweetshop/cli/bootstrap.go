package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/config"
	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
	"github.com/sweetshop/sweetshop/internal/store"
)

// sampleSweets is the starter catalog written by `db seed` and `db init`.
var sampleSweets = []model.SweetInput{
	{
		Name:        "Chocolate Cake",
		Description: strPtr("Rich chocolate cake with chocolate frosting"),
		Category:    "Cakes",
		Price:       15.99,
		Quantity:    10,
		ImageURL:    strPtr("https://example.com/chocolate-cake.jpg"),
	},
	{
		Name:        "Strawberry Cupcake",
		Description: strPtr("Vanilla cupcake with strawberry frosting"),
		Category:    "Cupcakes",
		Price:       3.50,
		Quantity:    25,
		ImageURL:    strPtr("https://example.com/strawberry-cupcake.jpg"),
	},
	{
		Name:        "Chocolate Chip Cookies",
		Description: strPtr("Classic homemade chocolate chip cookies"),
		Category:    "Cookies",
		Price:       2.25,
		Quantity:    50,
		ImageURL:    strPtr("https://example.com/choc-chip-cookies.jpg"),
	},
	{
		Name:        "Apple Pie",
		Description: strPtr("Traditional apple pie with cinnamon"),
		Category:    "Pies",
		Price:       12.99,
		Quantity:    5,
		ImageURL:    strPtr("https://example.com/apple-pie.jpg"),
	},
	{
		Name:        "Lemon Tart",
		Description: strPtr("Tangy lemon tart with meringue topping"),
		Category:    "Tarts",
		Price:       8.50,
		Quantity:    8,
		ImageURL:    strPtr("https://example.com/lemon-tart.jpg"),
	},
}

func strPtr(s string) *string { return &s }

// bootstrapAdmin makes sure the configured administrator exists.
func bootstrapAdmin(ctx context.Context, accounts *service.AccountService, admin config.AdminSettings, logger *slog.Logger) error {
	account, created, err := accounts.EnsureAdmin(ctx, admin.Email, admin.Password, admin.FullName)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("admin account created", "email", account.Email)
	} else {
		logger.Debug("admin account already exists", "email", account.Email)
	}
	return nil
}

// seedSweets adds every sample sweet whose name is not yet in the catalog
// and returns how many were created.
func seedSweets(ctx context.Context, st *store.Store, catalog *service.CatalogService, out io.Writer) (int, error) {
	created := 0
	for _, in := range sampleSweets {
		exists, err := st.SweetExists(ctx, in.Name)
		if err != nil {
			return created, err
		}
		if exists {
			fmt.Fprintf(out, "Sweet already exists: %s\n", in.Name)
			continue
		}
		if _, err := catalog.Create(ctx, in); err != nil {
			return created, fmt.Errorf("create %s: %w", in.Name, err)
		}
		fmt.Fprintf(out, "Created sweet: %s\n", in.Name)
		created++
	}
	return created, nil
}
