package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/api"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/cache"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

var (
	listExcludeMine bool
	listCached      bool

	propertyFlags propertyFlagSet
)

// propertyFlagSet mirrors the listing form of the web frontend.
type propertyFlagSet struct {
	name        string
	location    string
	description string
	price       string
	propType    string
	images      []string
	furnished   string
	floor       int
	totalFloors int
	age         string
	landmarks   string
	parking     string
	security    []string
	amenities   []string
}

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Browse and manage property listings",
}

var propertyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List properties for sale or rent",
	RunE:  runPropertyList,
}

var propertyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one listing in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertyGet,
}

var propertyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Post a new listing",
	RunE:  runPropertyAdd,
}

var propertyEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit one of your listings",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertyEdit,
}

var propertyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your listings",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertyDelete,
}

var propertyMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own listings",
	RunE:  runPropertyMine,
}

func init() {
	propertyListCmd.Flags().BoolVar(&listExcludeMine, "exclude-mine", false, "hide your own listings")
	propertyListCmd.Flags().BoolVar(&listCached, "cached", false, "read the local cache instead of the backend")

	for _, cmd := range []*cobra.Command{propertyAddCmd, propertyEditCmd} {
		cmd.Flags().StringVar(&propertyFlags.name, "name", "", "listing title")
		cmd.Flags().StringVar(&propertyFlags.location, "location", "", "location")
		cmd.Flags().StringVar(&propertyFlags.description, "description", "", "description")
		cmd.Flags().StringVar(&propertyFlags.price, "price", "", "price")
		cmd.Flags().StringVar(&propertyFlags.propType, "type", "", "sell or rent")
		cmd.Flags().StringArrayVar(&propertyFlags.images, "image", nil, "image URL (repeatable)")
		cmd.Flags().StringVar(&propertyFlags.furnished, "furnished", "", "furnished status")
		cmd.Flags().IntVar(&propertyFlags.floor, "floor", 0, "floor number")
		cmd.Flags().IntVar(&propertyFlags.totalFloors, "total-floors", 0, "total floors")
		cmd.Flags().StringVar(&propertyFlags.age, "age", "", "property age")
		cmd.Flags().StringVar(&propertyFlags.landmarks, "landmarks", "", "nearby landmarks")
		cmd.Flags().StringVar(&propertyFlags.parking, "parking", "", "parking availability")
		cmd.Flags().StringArrayVar(&propertyFlags.security, "security", nil, "security feature (repeatable)")
		cmd.Flags().StringArrayVar(&propertyFlags.amenities, "amenity", nil, "amenity (repeatable)")
	}

	propertyCmd.AddCommand(propertyListCmd, propertyGetCmd, propertyAddCmd,
		propertyEditCmd, propertyDeleteCmd, propertyMineCmd)
	rootCmd.AddCommand(propertyCmd)
}

func runPropertyList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if listCached {
		store, err := openCache(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		properties, err := store.Listings(ctx)
		if err != nil {
			return err
		}
		printProperties(properties)
		return nil
	}

	var opts api.ListPropertiesOptions
	if listExcludeMine {
		id, err := client.CurrentUserID()
		if err != nil {
			return err
		}
		opts.ExcludeUser = id
	}

	properties, err := client.ListProperties(ctx, opts)
	if err != nil {
		return err
	}
	printProperties(properties)
	saveListingCache(ctx, properties)
	return nil
}

func runPropertyGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	property, err := client.GetProperty(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("#%d %s\n", property.ID, property.Name)
	fmt.Printf("  Location:    %s\n", property.Location)
	fmt.Printf("  Price:       %s (%s)\n", property.Price, property.PropertyType)
	fmt.Printf("  Seller:      %s\n", property.SellerName)
	if property.FurnishedStatus != "" {
		fmt.Printf("  Furnished:   %s\n", property.FurnishedStatus)
	}
	if property.FloorNumber != nil && property.TotalFloors != nil {
		fmt.Printf("  Floor:       %d of %d\n", *property.FloorNumber, *property.TotalFloors)
	}
	if property.PropertyAge != "" {
		fmt.Printf("  Age:         %s\n", property.PropertyAge)
	}
	if property.NearbyLandmarks != "" {
		fmt.Printf("  Landmarks:   %s\n", property.NearbyLandmarks)
	}
	if property.ParkingAvailability != "" {
		fmt.Printf("  Parking:     %s\n", property.ParkingAvailability)
	}
	if len(property.Amenities) > 0 {
		fmt.Printf("  Amenities:   %s\n", strings.Join(property.Amenities, ", "))
	}
	if len(property.SecurityFeatures) > 0 {
		fmt.Printf("  Security:    %s\n", strings.Join(property.SecurityFeatures, ", "))
	}
	for _, img := range property.Images {
		fmt.Printf("  Image:       %s\n", img)
	}
	fmt.Printf("\n%s\n", property.Description)
	return nil
}

func runPropertyAdd(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	in := propertyFlags.toInput(cmd, nil)
	property, err := client.CreateProperty(cmd.Context(), in)
	if err != nil {
		return err
	}

	fmt.Printf("Listing created: #%d %s\n", property.ID, property.Name)
	return nil
}

func runPropertyEdit(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	// Fetch the current listing so unset flags keep their values.
	existing, err := client.GetProperty(cmd.Context(), id)
	if err != nil {
		return err
	}

	in := propertyFlags.toInput(cmd, existing)
	property, err := client.UpdateProperty(cmd.Context(), id, in)
	if err != nil {
		return err
	}

	fmt.Printf("Listing updated: #%d %s\n", property.ID, property.Name)
	return nil
}

func runPropertyDelete(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := client.DeleteProperty(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("Listing #%d deleted.\n", id)
	return nil
}

func runPropertyMine(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}

	properties, err := client.MyProperties(cmd.Context())
	if err != nil {
		return err
	}
	printProperties(properties)
	return nil
}

// toInput builds the API payload from flags, overlaying existing values
// for flags the user did not set (edit flow).
func (f *propertyFlagSet) toInput(cmd *cobra.Command, existing *models.Property) api.PropertyInput {
	in := api.PropertyInput{
		Name:                f.name,
		Location:            f.location,
		Description:         f.description,
		Price:               f.price,
		PropertyType:        f.propType,
		Images:              f.images,
		FurnishedStatus:     f.furnished,
		PropertyAge:         f.age,
		NearbyLandmarks:     f.landmarks,
		ParkingAvailability: f.parking,
		SecurityFeatures:    f.security,
		Amenities:           f.amenities,
	}
	if cmd.Flags().Changed("floor") {
		floor := f.floor
		in.FloorNumber = &floor
	}
	if cmd.Flags().Changed("total-floors") {
		total := f.totalFloors
		in.TotalFloors = &total
	}

	if existing == nil {
		return in
	}

	if !cmd.Flags().Changed("name") {
		in.Name = existing.Name
	}
	if !cmd.Flags().Changed("location") {
		in.Location = existing.Location
	}
	if !cmd.Flags().Changed("description") {
		in.Description = existing.Description
	}
	if !cmd.Flags().Changed("price") {
		in.Price = existing.Price
	}
	if !cmd.Flags().Changed("type") {
		in.PropertyType = existing.PropertyType
	}
	if !cmd.Flags().Changed("image") {
		in.Images = existing.Images
	}
	if !cmd.Flags().Changed("furnished") {
		in.FurnishedStatus = existing.FurnishedStatus
	}
	if !cmd.Flags().Changed("floor") {
		in.FloorNumber = existing.FloorNumber
	}
	if !cmd.Flags().Changed("total-floors") {
		in.TotalFloors = existing.TotalFloors
	}
	if !cmd.Flags().Changed("age") {
		in.PropertyAge = existing.PropertyAge
	}
	if !cmd.Flags().Changed("landmarks") {
		in.NearbyLandmarks = existing.NearbyLandmarks
	}
	if !cmd.Flags().Changed("parking") {
		in.ParkingAvailability = existing.ParkingAvailability
	}
	if !cmd.Flags().Changed("security") {
		in.SecurityFeatures = existing.SecurityFeatures
	}
	if !cmd.Flags().Changed("amenity") {
		in.Amenities = existing.Amenities
	}
	return in
}

func printProperties(properties []models.Property) {
	if len(properties) == 0 {
		fmt.Println("No listings found.")
		return
	}
	for _, p := range properties {
		fmt.Printf("#%-5d %-30s %-20s %10s  %s\n", p.ID, truncate(p.Name, 30), truncate(p.Location, 20), p.Price, p.PropertyType)
	}
}

// truncate shortens s to at most n runes. Counting runes keeps
// multibyte names intact.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func openCache(ctx context.Context) (*cache.Store, error) {
	return cache.NewStore(ctx, cfg.CacheDBPath)
}

// saveListingCache mirrors a successful fetch into the local cache.
// Best effort: failures are logged, never surfaced.
func saveListingCache(ctx context.Context, properties []models.Property) {
	store, err := openCache(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("listing cache unavailable")
		return
	}
	defer store.Close()

	if err := store.ReplaceListings(ctx, properties); err != nil {
		logger.Warn().Err(err).Msg("failed to update listing cache")
	}
}
