// path: controllers/sightings.go
package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"parkwatch/database"
	"parkwatch/metrics"
	"parkwatch/models"
	"parkwatch/validation"
)

func (h *Handlers) HandlePostSighting(c *fiber.Ctx) error {
	ct := c.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return h.postSightingJSON(c)
	}
	if strings.HasPrefix(ct, "multipart/form-data") {
		return h.postSightingMultipart(c)
	}
	return c.Status(fiber.StatusUnsupportedMediaType).
		JSON(ErrorResp{OK: false, Error: "unsupported content type"})
}

func (h *Handlers) postSightingJSON(c *fiber.Ctx) error {
	var p models.SightingPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}

	visit, errs := validation.Sighting(p)
	if len(errs) > 0 {
		metrics.SightingsRejectedTotal.Inc()
		return invalid(c, errs)
	}

	image := strings.TrimSpace(p.Image)
	if image == "" {
		image = models.PlaceholderImage
	}

	doc := models.Sighting{
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Image:       image,
		Danger:      p.Danger,
		VisitDate:   visit,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Fire:        p.Fire,
		APIKey:      strings.TrimSpace(p.APIKey),
		CreatedAt:   time.Now().UTC(),
	}
	return h.storeSighting(c, doc)
}

func (h *Handlers) postSightingMultipart(c *fiber.Ctx) error {
	p := models.SightingPayload{
		APIKey:      strings.TrimSpace(c.FormValue("apiKey")),
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Image:       strings.TrimSpace(c.FormValue("image")),
		VisitDate:   strings.TrimSpace(c.FormValue("visitDate")),
		Fire:        parseBool(c.FormValue("fire")),
	}

	if v := c.FormValue("danger"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badReq(c, "invalid danger")
		}
		p.Danger = n
	}
	lat, err := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if err != nil {
		return badReq(c, "invalid latitude")
	}
	lng, err := strconv.ParseFloat(c.FormValue("longitude"), 64)
	if err != nil {
		return badReq(c, "invalid longitude")
	}
	p.Latitude, p.Longitude = lat, lng

	visit, errs := validation.Sighting(p)
	if len(errs) > 0 {
		metrics.SightingsRejectedTotal.Inc()
		return invalid(c, errs)
	}

	// A photo file wins over an image URL field.
	image := p.Image
	if f, err := c.FormFile("photo"); err == nil && f != nil {
		saved, err := saveFormFile(h.UploadDir, "photo", f)
		if err != nil {
			return serverErr(c, err)
		}
		image = saved
	}
	if image == "" {
		image = models.PlaceholderImage
	}

	doc := models.Sighting{
		Title:       p.Title,
		Description: p.Description,
		Image:       image,
		Danger:      p.Danger,
		VisitDate:   visit,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Fire:        p.Fire,
		APIKey:      p.APIKey,
		CreatedAt:   time.Now().UTC(),
	}
	return h.storeSighting(c, doc)
}

// storeSighting persists the validated report and, for fire reports, signals
// the alert dispatcher after the insert. Alerting never rolls back a persisted
// report and never delays the response.
func (h *Handlers) storeSighting(c *fiber.Ctx, doc models.Sighting) error {
	stored, err := h.Sightings.Insert(c.Context(), doc)
	if err != nil {
		return serverErr(c, err)
	}
	metrics.SightingsSubmittedTotal.Inc()

	if stored.Fire && h.Fire != nil {
		h.Log.Info("fire reported, signaling alert broadcast", zap.String("id", stored.ID.Hex()))
		h.Fire.Notify()
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateSightingResp{OK: true, Item: toItem(stored)})
}

func (h *Handlers) HandleListSightings(c *fiber.Ctx) error {
	f := database.SightingFilter{Limit: 20}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if sd := c.Query("start_date"); sd != "" {
		t, err := time.Parse(time.RFC3339, sd)
		if err != nil {
			return badReq(c, "invalid start_date (RFC3339)")
		}
		f.StartDate = &t
	}
	if ed := c.Query("end_date"); ed != "" {
		t, err := time.Parse(time.RFC3339, ed)
		if err != nil {
			return badReq(c, "invalid end_date (RFC3339)")
		}
		f.EndDate = &t
	}
	if bb := c.Query("bbox"); bb != "" {
		bound, err := parseBbox(bb)
		if err != nil {
			return badReq(c, "invalid bbox (minLng,minLat,maxLng,maxLat)")
		}
		f.Bound = bound
	}
	if c.Query("fire") != "" {
		f.FireOnly = parseBool(c.Query("fire"))
	}
	if cursorHex := c.Query("cursor"); cursorHex != "" {
		if _, err := primitive.ObjectIDFromHex(cursorHex); err != nil {
			return badReq(c, "invalid cursor")
		}
		f.Cursor = cursorHex
	}

	docs, nextCursor, err := h.Sightings.List(c.Context(), f)
	if err != nil {
		return serverErr(c, err)
	}

	items := make([]models.SightingItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toItem(doc))
	}
	return c.Status(fiber.StatusOK).JSON(models.SightingListResp{
		OK:         true,
		Items:      items,
		NextCursor: nextCursor,
	})
}

func toItem(doc models.Sighting) models.SightingItem {
	return models.SightingItem{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Image:       doc.Image,
		Danger:      doc.Danger,
		VisitDate:   doc.VisitDate.UTC().Format("2006-01-02"),
		Latitude:    doc.Latitude,
		Longitude:   doc.Longitude,
		Fire:        doc.Fire,
		CreatedAt:   doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseBbox(s string) (*orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("need 4 numbers")
	}
	nums := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	b := orb.Bound{
		Min: orb.Point{nums[0], nums[1]},
		Max: orb.Point{nums[2], nums[3]},
	}
	if b.IsEmpty() {
		return nil, fmt.Errorf("max must be >= min")
	}
	return &b, nil
}

func saveFormFile(uploadDir, prefix string, f *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if len(ext) > 8 {
		ext = ext[:8]
	}
	name := fmt.Sprintf("%s_%d_%s%s", prefix, time.Now().UnixNano(), randString(6), ext)
	dst := filepath.Join(uploadDir, name)
	if err := cpyFile(f, dst); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func cpyFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
