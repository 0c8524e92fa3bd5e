package router

import (
	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/controller"
	"nhv_landlord_client/internal/model"
)

// Controllers 控制器集合
type Controllers struct {
	Auth     *controller.AuthController
	Listing  *controller.ListingController
	Favorite *controller.FavoriteController
	Post     *controller.PostController
	Landlord *controller.LandlordController
	Profile  *controller.ProfileController
}

// NewApp 注册所有命令
// 错误统一返回给调用方，由入口决定退出码
func NewApp(ctls *Controllers) *cli.App {
	app := &cli.App{
		Name:                 "nhv",
		Usage:                "Nairobi Vacant Houses landlord console",
		EnableBashCompletion: true,
		ExitErrHandler:       func(*cli.Context, error) {},
	}

	app.Commands = []*cli.Command{
		// -------- 账号 --------
		{
			Name:   "register",
			Usage:  "create a landlord account",
			Action: ctls.Auth.Register,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "full name"},
				&cli.StringFlag{Name: "location", Usage: "area, e.g. Kilimani"},
				&cli.StringFlag{Name: "phone", Usage: "07XXXXXXXX or 01XXXXXXXX"},
				&cli.StringFlag{Name: "email", Usage: "optional"},
				&cli.StringFlag{Name: "password", Usage: "at least 6 characters"},
				&cli.StringFlag{Name: "confirm", Usage: "repeat password"},
			},
		},
		{
			Name:   "login",
			Usage:  "sign in with phone and password",
			Action: ctls.Auth.Login,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "phone"},
				&cli.StringFlag{Name: "password"},
			},
		},
		{
			Name:   "logout",
			Usage:  "forget the stored session",
			Action: ctls.Auth.Logout,
		},
		{
			Name:   "whoami",
			Usage:  "show the signed-in landlord",
			Action: ctls.Auth.WhoAmI,
		},

		// -------- 公开浏览 --------
		{
			Name:   "listings",
			Usage:  "browse vacant houses",
			Action: ctls.Listing.List,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "location"},
				&cli.StringFlag{Name: "type", Usage: propertyTypeUsage()},
				&cli.Int64Flag{Name: "min-price"},
				&cli.Int64Flag{Name: "max-price"},
				&cli.StringFlag{Name: "sort", Value: string(model.SortNewest), Usage: "newest | price_asc | price_desc | popular"},
				&cli.IntFlag{Name: "page", Value: 1},
			},
		},
		{
			Name:  "listing",
			Usage: "view a single listing",
			Subcommands: []*cli.Command{
				{
					Name:      "show",
					ArgsUsage: "<id>",
					Action:    ctls.Listing.Show,
				},
				{
					Name:      "review",
					ArgsUsage: "<id>",
					Action:    ctls.Listing.Review,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name"},
						&cli.IntFlag{Name: "rating", Usage: "1-5"},
						&cli.StringFlag{Name: "comment"},
					},
				},
				{
					Name:      "inquire",
					ArgsUsage: "<id>",
					Action:    ctls.Listing.Inquire,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name"},
						&cli.StringFlag{Name: "phone"},
						&cli.StringFlag{Name: "message"},
					},
				},
			},
		},
		{
			Name:   "stats",
			Usage:  "platform overview",
			Action: ctls.Listing.Stats,
		},
		{
			Name:  "favorite",
			Usage: "locally saved listings",
			Subcommands: []*cli.Command{
				{Name: "add", ArgsUsage: "<id>", Action: ctls.Favorite.Add},
				{Name: "remove", ArgsUsage: "<id>", Action: ctls.Favorite.Remove},
				{Name: "toggle", ArgsUsage: "<id>", Action: ctls.Favorite.Toggle},
				{Name: "list", Action: ctls.Favorite.List},
			},
		},

		// -------- 房东 --------
		{
			Name:   "post",
			Usage:  "post a new listing and pay the KES 300 fee via M-Pesa",
			Action: ctls.Post.Post,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title"},
				&cli.StringFlag{Name: "description"},
				&cli.StringFlag{Name: "location"},
				&cli.StringFlag{Name: "sub-location"},
				&cli.StringFlag{Name: "type", Usage: propertyTypeUsage()},
				&cli.Int64Flag{Name: "price", Usage: "monthly rent in KES (min 1,000)"},
				&cli.Int64Flag{Name: "deposit"},
				&cli.StringFlag{Name: "contact-phone", Usage: "defaults to your phone"},
				&cli.StringFlag{Name: "available-from", Usage: "YYYY-MM-DD"},
				&cli.IntFlag{Name: "floor"},
				&cli.IntFlag{Name: "total-floors"},
				&cli.IntFlag{Name: "size", Usage: "size in sqft"},
				&cli.StringSliceFlag{Name: "amenity", Usage: "repeatable"},
				&cli.StringSliceFlag{Name: "image", Usage: "repeatable, 1-5 images, first is the cover"},
				&cli.StringFlag{Name: "mpesa-phone", Usage: "defaults to your phone"},
				&cli.BoolFlag{Name: "no-wait", Usage: "do not wait for payment confirmation"},
				&cli.BoolFlag{Name: "activate", Usage: "activate immediately in demo mode"},
			},
		},
		{
			Name:   "dashboard",
			Usage:  "listing statistics",
			Action: ctls.Landlord.Dashboard,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "watch", Usage: "keep refreshing until interrupted"},
			},
		},
		{
			Name:   "my-listings",
			Usage:  "manage your listings",
			Action: ctls.Landlord.MyListings,
			Subcommands: []*cli.Command{
				{Name: "delete", ArgsUsage: "<id>", Action: ctls.Landlord.Delete},
				{Name: "activate", ArgsUsage: "<id>", Action: ctls.Landlord.Activate},
			},
		},
		{
			Name:  "profile",
			Usage: "view or edit your profile",
			Subcommands: []*cli.Command{
				{Name: "show", Action: ctls.Profile.Show},
				{
					Name:   "update",
					Action: ctls.Profile.Update,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name"},
						&cli.StringFlag{Name: "location"},
						&cli.StringFlag{Name: "email"},
					},
				},
			},
		},
	}
	return app
}

func propertyTypeUsage() string {
	usage := ""
	for i, t := range model.PropertyTypes {
		if i > 0 {
			usage += " | "
		}
		usage += string(t)
	}
	return usage
}
