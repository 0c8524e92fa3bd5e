package controller

import (
	"path/filepath"

	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/internal/service"
	"nhv_landlord_client/pkg/utils"
)

// WizardFactory 为当前房东创建一次发布向导
type WizardFactory func(actor *model.Landlord) *service.ListingWizard

// PostController 发布房源 (向导驱动)
type PostController struct {
	authService     *service.AuthService
	landlordService *service.LandlordService
	newWizard       WizardFactory
	console         *Console
}

func NewPostController(auth *service.AuthService, landlord *service.LandlordService, factory WizardFactory, console *Console) *PostController {
	return &PostController{
		authService:     auth,
		landlordService: landlord,
		newWizard:       factory,
		console:         console,
	}
}

// Post nhv post --title --location --type --price --image ... [--mpesa-phone] [--no-wait] [--activate]
func (ctrl *PostController) Post(c *cli.Context) error {
	actor := ctrl.authService.Current(c.Context)
	if actor == nil {
		return errLoginFirst
	}

	w := ctrl.newWizard(actor)
	defer w.Discard()

	// 1. 详情
	if err := w.UpdateDraft(func(d *model.DraftListing) { applyDraftFlags(c, d) }); err != nil {
		return err
	}
	if err := w.Next(); err != nil {
		return fail(w.Message())
	}
	ctrl.stage(w)

	// 2. 图片 (按参数顺序，第一张为封面)
	images := make([]model.Attachment, 0, len(c.StringSlice("image")))
	for _, path := range c.StringSlice("image") {
		data, contentType, err := utils.ReadImageFile(path)
		if err != nil {
			ctrl.console.Error(err.Error())
			return fail(service.MsgBadImage)
		}
		images = append(images, model.Attachment{
			Filename:    filepath.Base(path),
			ContentType: contentType,
			Data:        data,
		})
	}
	if len(images) > 0 {
		if err := w.AddAttachments(images...); err != nil {
			return failWith(err, service.MsgBadImage)
		}
	}
	if err := w.Next(); err != nil {
		return fail(w.Message())
	}
	ctrl.stage(w)

	// 3. 支付
	if c.IsSet("mpesa-phone") {
		if err := w.SetPaymentPhone(c.String("mpesa-phone")); err != nil {
			return err
		}
	}
	ctrl.console.Printf("Listing fee: %s via M-Pesa to %s\n", formatKES(model.ListingFeeKES), w.Draft().MpesaPhone)

	result, err := w.Submit(c.Context)
	if err != nil {
		return failWith(err, service.MsgSubmitFailed)
	}
	ctrl.console.Printf("Listing #%d submitted\n", result.ListingID)

	// 4. 确认
	switch w.Confirmation() {
	case service.ConfirmDemo:
		if !c.Bool("activate") {
			ctrl.console.Printf("Run `my-listings activate %d` to publish it.\n", result.ListingID)
			return nil
		}
		if err := w.Activate(c.Context); err != nil {
			return fail(service.MsgActivateFailed)
		}
		return nil
	case service.ConfirmWaiting:
		if c.Bool("no-wait") {
			ctrl.console.Println("Payment status will appear in your dashboard.")
			return nil
		}
		return ctrl.awaitPayment(c, w)
	}
	return nil
}

// stage 当前步骤，如 "Step 2/4 Photos"
func (ctrl *PostController) stage(w *service.ListingWizard) {
	ctrl.console.Printf("Step %d/%d %s\n", w.Stage().Step(), service.StageConfirmation.Step(), w.Stage())
}

func (ctrl *PostController) awaitPayment(c *cli.Context, w *service.ListingWizard) error {
	ctrl.console.Println("Waiting for M-Pesa confirmation... (Ctrl+C to stop)")

	select {
	case <-w.PaymentDone():
	case <-c.Context.Done():
		w.Discard()
		ctrl.console.Println("Stopped waiting. Payment status will appear in your dashboard.")
		return nil
	}

	switch w.Confirmation() {
	case service.ConfirmPaid:
		// 跳转到我的房源
		listings, err := ctrl.landlordService.MyListings(c.Context)
		if err != nil {
			// 支付已成功，列表加载失败只提示
			ctrl.console.Error(service.MsgLoadListingsFailed)
			return nil
		}
		ctrl.console.Table(listingHeader, listingRows(listings))
	case service.ConfirmPaymentFailed:
		return cli.Exit("", 1)
	}
	return nil
}

func applyDraftFlags(c *cli.Context, d *model.DraftListing) {
	d.Title = c.String("title")
	d.Description = c.String("description")
	d.Location = c.String("location")
	d.SubLocation = c.String("sub-location")
	d.PropertyType = model.PropertyType(c.String("type"))
	d.Price = c.Int64("price")
	d.AvailableFrom = c.String("available-from")

	if c.IsSet("deposit") {
		v := c.Int64("deposit")
		d.Deposit = &v
	}
	if c.IsSet("contact-phone") {
		d.ContactPhone = c.String("contact-phone")
	}
	if c.IsSet("floor") {
		v := c.Int("floor")
		d.FloorNumber = &v
	}
	if c.IsSet("total-floors") {
		v := c.Int("total-floors")
		d.TotalFloors = &v
	}
	if c.IsSet("size") {
		v := c.Int("size")
		d.SizeSqft = &v
	}
	d.Amenities = model.NewAmenitySet(c.StringSlice("amenity")...)
}
