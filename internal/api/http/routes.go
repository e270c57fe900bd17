package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/suggest"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("register validation messages: %v", err))
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl *dashboard.Controller, resolver dashboard.Resolver) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Snapshot())
	})

	v1.Get("/places/search", func(c *fiber.Ctx) error {
		q := searchQuery{Query: c.Query("q"), Language: c.Query("lang", ctrl.Language())}
		if err := check(q); err != nil {
			return err
		}

		res := resolver.Search(c.UserContext(), q.Query, q.Language)
		places := res.Places
		if places == nil {
			places = []weather.Place{}
		}
		return c.JSON(fiber.Map{
			"status": res.Status.String(),
			"places": places,
		})
	})

	v1.Get("/places/reverse", func(c *fiber.Ctx) error {
		coord, err := parseCoordinate(c.Query("lat"), c.Query("lon"))
		if err != nil {
			return err
		}
		lang := c.Query("lang", ctrl.Language())
		if err := check(languageField{Language: lang}); err != nil {
			return err
		}

		res := resolver.Reverse(c.UserContext(), coord, lang)
		if res.Status != geocode.StatusFound {
			return fiber.NewError(fiber.StatusNotFound, "no place found at the requested coordinate")
		}
		return c.JSON(fiber.Map{
			"place":    res.Place,
			"label":    res.Place.Label(),
			"source":   res.Source,
			"cacheHit": res.CacheHit,
		})
	})

	v1.Put("/search", func(c *fiber.Ctx) error {
		var req queryRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		ctrl.SetQuery(req.Query)
		return c.Status(fiber.StatusAccepted).JSON(ctrl.Snapshot())
	})

	v1.Post("/places/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		snapshot, err := ctrl.Select(c.UserContext(), req.ID)
		if err != nil {
			return loadError(ctrl, err)
		}
		return c.JSON(snapshot)
	})

	v1.Post("/weather", func(c *fiber.Ctx) error {
		var req placeRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		snapshot, err := ctrl.LoadWeather(c.UserContext(), req.toPlace())
		if err != nil {
			return loadError(ctrl, err)
		}
		return c.JSON(snapshot)
	})

	v1.Post("/weather/gps", func(c *fiber.Ctx) error {
		var req gpsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if req.Latitude == nil || req.Longitude == nil {
			ctrl.LocationUnavailable(errors.New("request carried no position fix"))
			return fiber.NewError(fiber.StatusUnprocessableEntity, ctrl.Snapshot().Error)
		}
		if err := check(req); err != nil {
			return err
		}

		snapshot, err := ctrl.UseGPS(c.UserContext(), weather.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
		if err != nil {
			return loadError(ctrl, err)
		}
		return c.JSON(snapshot)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		st := ctrl.Snapshot()
		if st.Weather == nil {
			return fiber.NewError(fiber.StatusNotFound, "no weather loaded")
		}
		return c.JSON(fiber.Map{
			"weather": st.Weather,
			"offline": st.Offline,
		})
	})

	v1.Post("/suggestions", func(c *fiber.Ctx) error {
		var req suggestionRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		style, err := suggest.ParseStyle(req.Style)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		out, err := ctrl.AskAI(c.UserContext(), style)
		switch {
		case err == nil:
			return c.JSON(out)
		case errors.Is(err, dashboard.ErrNoWeather):
			return fiber.NewError(fiber.StatusConflict, "load a forecast before asking for a suggestion")
		default:
			return fiber.NewError(fiber.StatusBadGateway, "failed to get a suggestion")
		}
	})

	v1.Put("/preferences", func(c *fiber.Ctx) error {
		var req preferencesRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		if req.Language != "" {
			if err := ctrl.SetLanguage(req.Language); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		if req.Theme != "" {
			theme, err := dashboard.ParseTheme(req.Theme)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			ctrl.SetTheme(theme)
		}
		return c.JSON(ctrl.Snapshot())
	})
}

// loadError maps a failed weather load. Upstream failures carry the
// localized message the dashboard shows.
func loadError(ctrl *dashboard.Controller, err error) error {
	switch {
	case errors.Is(err, dashboard.ErrStale):
		return fiber.NewError(fiber.StatusConflict, "superseded by a newer request")
	case errors.Is(err, dashboard.ErrNoResult):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		msg := ctrl.Snapshot().Error
		if msg == "" {
			msg = "failed to fetch weather data"
		}
		return fiber.NewError(fiber.StatusBadGateway, msg)
	}
}

type languageField struct {
	Language string `validate:"omitempty,oneof=en fr ar"`
}

type searchQuery struct {
	Query    string `validate:"required"`
	Language string `validate:"omitempty,oneof=en fr ar"`
}

type queryRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type selectRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type placeRequest struct {
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Name        string  `json:"name" validate:"required"`
	Country     string  `json:"country"`
	Approximate bool    `json:"approximate"`
}

func (p placeRequest) toPlace() weather.Place {
	return weather.Place{
		Name:        p.Name,
		Country:     p.Country,
		Coordinate:  weather.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude},
		Approximate: p.Approximate,
	}
}

type gpsRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type suggestionRequest struct {
	Style string `json:"style" validate:"required,oneof=Casual Business Sport casual business sport"`
}

type preferencesRequest struct {
	Language string `json:"language" validate:"omitempty,oneof=en fr ar"`
	Theme    string `json:"theme" validate:"omitempty,oneof=system light dark"`
}

func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return check(dst)
}

// check validates v and joins the translated field messages.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}

// parseCoordinate reads lat/lon query values.
func parseCoordinate(latStr, lonStr string) (weather.Coordinate, error) {
	if latStr == "" || lonStr == "" {
		return weather.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return weather.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, "lat must be a number between -90 and 90")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return weather.Coordinate{}, fiber.NewError(fiber.StatusBadRequest, "lon must be a number between -180 and 180")
	}
	return weather.Coordinate{Latitude: lat, Longitude: lon}, nil
}
