package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"StorefrontPlatform/pkg/database"
	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/repository/postgres"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Управление каталогом",
}

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить товар в каталог",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		rawPrice, _ := flags.GetString("price")
		description, _ := flags.GetString("description")
		imageURL, _ := flags.GetString("image-url")
		categoryID, _ := flags.GetInt64("category-id")

		price, err := decimal.NewFromString(rawPrice)
		if err != nil || !price.IsPositive() {
			return errors.InvalidArgument("price must be a positive decimal, got %q", rawPrice)
		}

		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.Connect(cmd.Context(), database.FromAppConfig(cfg.Database))
		if err != nil {
			return err
		}
		defer db.Close()

		product := &domain.Product{
			Name:        name,
			Description: description,
			ImageURL:    imageURL,
			Price:       price,
			CategoryID:  categoryID,
		}
		if err := postgres.NewProductRepository(db.Pool).Create(cmd.Context(), product); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "product %d created\n", product.ID)
		return nil
	},
}

func init() {
	productAddCmd.Flags().String("name", "", "product name")
	productAddCmd.Flags().String("price", "", "unit price, e.g. 19.99")
	productAddCmd.Flags().String("description", "", "product description")
	productAddCmd.Flags().String("image-url", "", "product image URL")
	productAddCmd.Flags().Int64("category-id", 0, "category id (0 for none)")
	_ = productAddCmd.MarkFlagRequired("name")
	_ = productAddCmd.MarkFlagRequired("price")

	productCmd.AddCommand(productAddCmd)
}
