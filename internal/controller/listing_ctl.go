package controller

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/internal/service"
	"nhv_landlord_client/pkg/net"
)

// ListingController 公开房源浏览
type ListingController struct {
	listingService  *service.ListingService
	favoriteService *service.FavoriteService
	console         *Console
}

func NewListingController(ls *service.ListingService, fs *service.FavoriteService, console *Console) *ListingController {
	return &ListingController{listingService: ls, favoriteService: fs, console: console}
}

// List nhv listings [--location --type --min-price --max-price --sort --page]
func (ctrl *ListingController) List(c *cli.Context) error {
	q := dto.ListingQuery{
		Location:     c.String("location"),
		PropertyType: model.PropertyType(c.String("type")),
		MinPrice:     c.Int64("min-price"),
		MaxPrice:     c.Int64("max-price"),
		Sort:         model.ListingSort(c.String("sort")),
		Page:         c.Int("page"),
		Limit:        dto.DefaultPageSize,
	}

	page, err := ctrl.listingService.Browse(c.Context, q)
	if errors.Is(err, service.ErrInvalidSort) {
		return fail("sort must be one of: newest, price_asc, price_desc, popular")
	}
	if err != nil {
		return failWith(err, service.MsgLoadListingsFailed)
	}

	if len(page.Listings) == 0 {
		ctrl.console.Println("No listings found")
		if q.HasFilters() {
			ctrl.console.Println("Try adjusting your filters")
		}
		return nil
	}

	ctrl.console.Table(listingHeader, listingRows(page.Listings))
	current := q.Page
	if current < 1 {
		current = 1
	}
	ctrl.console.Printf("\n%d listings · page %d of %d\n", page.Total, current, page.TotalPages)
	return nil
}

// Show nhv listing show <id>
func (ctrl *ListingController) Show(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	l, err := ctrl.listingService.Get(c.Context, id)
	if errors.Is(err, net.ErrNotFound) {
		return fail(service.MsgListingNotFound)
	}
	if err != nil {
		return failWith(err, service.MsgListingNotFound)
	}

	ctrl.console.Printf("%s\n", l.Title)
	ctrl.console.Printf("%s · %s · %s/mo\n", joinLocation(l), l.PropertyType.Label(), formatKES(int64(l.Price)))
	if l.Deposit > 0 {
		ctrl.console.Printf("Deposit: %s\n", formatKES(int64(l.Deposit)))
	}
	if l.AvailableFrom != "" {
		ctrl.console.Printf("Available from: %s\n", l.AvailableFrom)
	}
	if l.Description != "" {
		ctrl.console.Printf("\n%s\n", l.Description)
	}
	if len(l.Amenities) > 0 {
		ctrl.console.Printf("\nAmenities: %s\n", strings.Join(l.Amenities, ", "))
	}
	if cover := l.CoverImage(); cover != "" {
		ctrl.console.Printf("Photos: %d (cover %s)\n", len(l.Images), cover)
	}
	ctrl.console.Printf("\nLandlord: %s · %s\n", l.LandlordName, firstNonEmpty(l.ContactPhone, l.LandlordPhone))
	ctrl.console.Printf("Views: %d · Rating: %.1f (%d reviews)\n", l.Views, l.AvgRating.Float64(), l.ReviewCount)

	for _, r := range l.Reviews {
		ctrl.console.Printf("  %s %s: %s\n", strings.Repeat("★", r.Rating), r.ReviewerName, r.Comment)
	}

	if fav, err := ctrl.favoriteService.IsFavorite(c.Context, id); err == nil && fav {
		ctrl.console.Println("♥ In your favorites")
	}
	return nil
}

// Review nhv listing review <id> --name --rating [--comment]
func (ctrl *ListingController) Review(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req := &dto.ReviewRequest{
		ReviewerName: c.String("name"),
		Rating:       c.Int("rating"),
		Comment:      c.String("comment"),
	}
	if _, err := ctrl.listingService.Review(c.Context, id, req); err != nil {
		if service.IsValidation(err) {
			return failWith(err, service.MsgReviewFailed)
		}
		return fail(service.MsgReviewFailed)
	}
	ctrl.console.Success(service.MsgReviewSubmitted)
	return nil
}

// Inquire nhv listing inquire <id> --name --phone --message
func (ctrl *ListingController) Inquire(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req := &dto.InquiryRequest{
		Name:    c.String("name"),
		Phone:   c.String("phone"),
		Message: c.String("message"),
	}
	if err := ctrl.listingService.Inquire(c.Context, id, req); err != nil {
		if service.IsValidation(err) {
			return failWith(err, service.MsgInquiryFailed)
		}
		return fail(service.MsgInquiryFailed)
	}
	ctrl.console.Success(service.MsgInquirySent)
	return nil
}

// Stats nhv stats
func (ctrl *ListingController) Stats(c *cli.Context) error {
	stats, err := ctrl.listingService.PlatformStats(c.Context)
	if err != nil {
		return failWith(err, "Failed to load stats")
	}
	ctrl.console.Printf("Active listings: %d\n", stats.ActiveListings)
	ctrl.console.Printf("Landlords:       %d\n", stats.TotalLandlords)
	ctrl.console.Printf("Locations:       %d\n", stats.Locations)
	return nil
}

func joinLocation(l *model.Listing) string {
	if l.SubLocation != "" {
		return l.SubLocation + ", " + l.Location
	}
	return l.Location
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
