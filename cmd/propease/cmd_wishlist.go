package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

var wishlistCached bool

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage your wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your wishlist",
	RunE:  runWishlistList,
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <property-id>",
	Short: "Add a property to your wishlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistAdd,
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <property-id>",
	Short: "Remove a property from your wishlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistRemove,
}

func init() {
	wishlistListCmd.Flags().BoolVar(&wishlistCached, "cached", false, "read the local cache instead of the backend")

	wishlistCmd.AddCommand(wishlistListCmd, wishlistAddCmd, wishlistRemoveCmd)
	rootCmd.AddCommand(wishlistCmd)
}

func runWishlistList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if wishlistCached {
		store, err := openCache(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		ids, err := store.WishlistIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("Wishlist is empty.")
			return nil
		}
		for _, id := range ids {
			fmt.Printf("#%d\n", id)
		}
		return nil
	}

	if err := requireLogin(); err != nil {
		return err
	}

	items, err := client.Wishlist(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Wishlist is empty.")
		return nil
	}

	properties := make([]models.Property, 0, len(items))
	for _, item := range items {
		properties = append(properties, item.Property)
	}
	printProperties(properties)
	saveWishlistCache(ctx, properties)
	return nil
}

func runWishlistAdd(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	item, err := client.AddToWishlist(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Added to wishlist: #%d %s\n", item.Property.ID, item.Property.Name)
	return nil
}

func runWishlistRemove(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := client.RemoveFromWishlist(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("Property #%d removed from wishlist.\n", id)
	return nil
}

func saveWishlistCache(ctx context.Context, properties []models.Property) {
	store, err := openCache(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("wishlist cache unavailable")
		return
	}
	defer store.Close()

	ids := make([]int64, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	if err := store.ReplaceWishlist(ctx, ids); err != nil {
		logger.Warn().Err(err).Msg("failed to update wishlist cache")
	}
}
