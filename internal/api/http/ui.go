package httpapi

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-journal/internal/presentation"
	"github.com/i474232898/weather-journal/internal/records"
)

const (
	cookieLastLocation = "last_location"
	cookieLastUnits    = "last_units"
	lastSearchTTL      = 365 * 24 * time.Hour
)

// index renders the page. Without ?query it repeats the last search remembered in cookies.
func (h *handlers) index(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page := presentation.Page{
		Query:       c.Query("query"),
		Units:       c.Query("units"),
		RangeStatus: c.Query("status"),
	}
	if page.Query == "" {
		page.Query = readCookie(c, cookieLastLocation)
	}
	if page.Units == "" {
		page.Units = readCookie(c, cookieLastUnits)
	}

	if page.Query != "" {
		lookup, err := h.deps.Weather.Lookup(ctx, page.Query, page.Units)
		if err != nil {
			page.WeatherStatus = userMessage(err)
		} else {
			current := presentation.NewCurrentPanel(lookup.Current, lookup.Units)
			page.Current = &current
			page.Forecast = presentation.ForecastCards(lookup.Daily, lookup.Units)
			page.Units = string(lookup.Units)
			writeCookie(c, cookieLastLocation, page.Query)
			writeCookie(c, cookieLastUnits, page.Units)
		}
	}

	list, err := h.deps.Records.List(ctx)
	if err != nil {
		h.deps.Log.Error("list records", zap.Error(err))
		page.RecordsError = "Could not load saved records."
	} else {
		page.Records = presentation.RecordRows(list)
	}

	if raw := c.Query("record"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			if rec, err := h.deps.Records.Get(ctx, uint(id)); err == nil {
				detail := presentation.NewRecordDetail(rec)
				page.Detail = &detail
			} else if page.RangeStatus == "" {
				page.RangeStatus = userMessage(err)
			}
		}
	}

	var buf bytes.Buffer
	if err := presentation.Render(&buf, page); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *handlers) createFromForm(c *fiber.Ctx) error {
	rec, err := h.deps.Records.Create(c.UserContext(), records.CreateInput{
		Query:     c.FormValue("query"),
		StartDate: c.FormValue("startDate"),
		EndDate:   c.FormValue("endDate"),
		Units:     c.FormValue("units"),
	})
	if err != nil {
		return redirectHome(c, userMessage(err), 0)
	}
	return redirectHome(c, "Saved ✓", rec.ID)
}

func (h *handlers) updateFromForm(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return redirectHome(c, msgNotFound, 0)
	}

	rec, err := h.deps.Records.Update(c.UserContext(), id, records.Patch{
		Query:     formField(c, "query"),
		StartDate: formField(c, "startDate"),
		EndDate:   formField(c, "endDate"),
		Units:     formField(c, "units"),
	})
	if err != nil {
		return redirectHome(c, userMessage(err), id)
	}
	return redirectHome(c, "Updated ✓", rec.ID)
}

func (h *handlers) deleteFromForm(c *fiber.Ctx) error {
	id, err := recordID(c)
	if err != nil {
		return redirectHome(c, msgNotFound, 0)
	}
	if err := h.deps.Records.Delete(c.UserContext(), id); err != nil {
		return redirectHome(c, userMessage(err), 0)
	}
	return redirectHome(c, fmt.Sprintf("Deleted #%d", id), 0)
}

// formField returns nil for a field the form did not send, so the stored value is kept.
func formField(c *fiber.Ctx, key string) *string {
	v := c.FormValue(key)
	if v == "" {
		return nil
	}
	return &v
}

func redirectHome(c *fiber.Ctx, status string, recordID uint) error {
	values := url.Values{}
	values.Set("status", status)
	if recordID != 0 {
		values.Set("record", strconv.FormatUint(uint64(recordID), 10))
	}
	return c.Redirect("/?"+values.Encode(), fiber.StatusSeeOther)
}

func readCookie(c *fiber.Ctx, name string) string {
	v, err := url.QueryUnescape(c.Cookies(name))
	if err != nil {
		return ""
	}
	return v
}

func writeCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Expires:  time.Now().Add(lastSearchTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
