// path: controllers/controllers_test.go
package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"parkwatch/alerts"
	"parkwatch/controllers"
	"parkwatch/database"
	"parkwatch/models"
	"parkwatch/routes"
	"parkwatch/sms"
)

type fakeSightings struct {
	docs      []models.Sighting
	inserts   int
	insertErr error
}

func (f *fakeSightings) Insert(ctx context.Context, doc models.Sighting) (models.Sighting, error) {
	if f.insertErr != nil {
		return models.Sighting{}, f.insertErr
	}
	f.inserts++
	doc.ID = primitive.NewObjectID()
	f.docs = append(f.docs, doc)
	return doc, nil
}

func (f *fakeSightings) List(ctx context.Context, _ database.SightingFilter) ([]models.Sighting, string, error) {
	return f.docs, "", nil
}

type fakeEmails struct {
	regs []models.EmailRegistration
}

func (f *fakeEmails) Insert(ctx context.Context, email string) (models.EmailRegistration, error) {
	for _, r := range f.regs {
		if r.Email == email {
			return models.EmailRegistration{}, fmt.Errorf("insert email: %w", database.ErrDuplicate)
		}
	}
	reg := models.EmailRegistration{ID: primitive.NewObjectID(), Email: email}
	f.regs = append(f.regs, reg)
	return reg, nil
}

func (f *fakeEmails) ListEmails(ctx context.Context) ([]models.EmailRegistration, error) {
	return f.regs, nil
}

type fakePhones struct {
	regs []models.PhoneRegistration
}

func (f *fakePhones) Insert(ctx context.Context, number string) (models.PhoneRegistration, error) {
	for _, r := range f.regs {
		if r.Number == number {
			return models.PhoneRegistration{}, fmt.Errorf("insert phone: %w", database.ErrDuplicate)
		}
	}
	reg := models.PhoneRegistration{ID: primitive.NewObjectID(), Number: number}
	f.regs = append(f.regs, reg)
	return reg, nil
}

func (f *fakePhones) ListNumbers(ctx context.Context) ([]models.PhoneRegistration, error) {
	return f.regs, nil
}

type fakeNotifier struct {
	n atomic.Int32
}

func (f *fakeNotifier) Notify() { f.n.Add(1) }

type fakeBroadcast struct {
	sum alerts.Summary
	err error
}

func (f *fakeBroadcast) BroadcastFireAlert(ctx context.Context) (alerts.Summary, error) {
	return f.sum, f.err
}

type fakeTexts struct {
	err   error
	calls []string
}

func (f *fakeTexts) Send(ctx context.Context, number, message, carrierKey, region string) error {
	f.calls = append(f.calls, number)
	return f.err
}

type fixture struct {
	app       *fiber.App
	sightings *fakeSightings
	emails    *fakeEmails
	phones    *fakePhones
	notifier  *fakeNotifier
	broadcast *fakeBroadcast
	texts     *fakeTexts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		sightings: &fakeSightings{},
		emails:    &fakeEmails{},
		phones:    &fakePhones{},
		notifier:  &fakeNotifier{},
		broadcast: &fakeBroadcast{},
		texts:     &fakeTexts{},
	}
	h := &controllers.Handlers{
		Sightings: fx.sightings,
		Emails:    fx.emails,
		Phones:    fx.phones,
		Fire:      fx.notifier,
		Broadcast: fx.broadcast,
		Texts:     fx.texts,
		Log:       zap.NewNop(),
		UploadDir: t.TempDir(),
	}
	fx.app = fiber.New()
	routes.Register(fx.app, h)
	return fx
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func validSighting() models.SightingPayload {
	return models.SightingPayload{
		APIKey:      "flp-2023",
		Title:       "Black bear near the lake",
		Description: "Crossing the trail by the boat ramp",
		Image:       "https://photos.example.com/bear.jpg",
		Danger:      5,
		VisitDate:   "2023-06-14",
		Latitude:    29.086308,
		Longitude:   -81.833532,
	}
}

func TestSubmitSighting(t *testing.T) {
	fx := newFixture(t)

	resp := postJSON(t, fx.app, "/api/logs", validSighting())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	out := decode[models.CreateSightingResp](t, resp)
	assert.True(t, out.OK)
	assert.NotEmpty(t, out.Item.ID)
	assert.Equal(t, "Black bear near the lake", out.Item.Title)
	assert.Equal(t, "2023-06-14", out.Item.VisitDate)
	assert.Equal(t, 29.086308, out.Item.Latitude)
	assert.Equal(t, -81.833532, out.Item.Longitude)
	assert.Equal(t, 1, fx.sightings.inserts)
	assert.Zero(t, fx.notifier.n.Load(), "no alert for a plain sighting")
}

func TestSubmitSightingMissingTitle(t *testing.T) {
	fx := newFixture(t)

	p := validSighting()
	p.Title = ""
	resp := postJSON(t, fx.app, "/api/logs", p)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out := decode[controllers.ErrorResp](t, resp)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, "title", out.Fields[0].Field)
	assert.Zero(t, fx.sightings.inserts, "validation failure must not touch the store")
}

func TestSubmitSightingDefaultsImage(t *testing.T) {
	fx := newFixture(t)

	p := validSighting()
	p.Image = ""
	resp := postJSON(t, fx.app, "/api/logs", p)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	out := decode[models.CreateSightingResp](t, resp)
	assert.Equal(t, models.PlaceholderImage, out.Item.Image)
}

func TestSubmitFireReportSignalsBroadcast(t *testing.T) {
	fx := newFixture(t)

	p := validSighting()
	p.Fire = true
	resp := postJSON(t, fx.app, "/api/logs", p)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, int32(1), fx.notifier.n.Load())
}

func TestSubmitFireReportStoreFailureDoesNotSignal(t *testing.T) {
	fx := newFixture(t)
	fx.sightings.insertErr = errors.New("mongo unreachable")

	p := validSighting()
	p.Fire = true
	resp := postJSON(t, fx.app, "/api/logs", p)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Zero(t, fx.notifier.n.Load(), "alerting follows persistence, never precedes it")
}

func TestSightingCoordinateRoundTrip(t *testing.T) {
	fx := newFixture(t)

	resp := postJSON(t, fx.app, "/api/logs", validSighting())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	listResp, err := fx.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	out := decode[models.SightingListResp](t, listResp)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 29.086308, out.Items[0].Latitude)
	assert.Equal(t, -81.833532, out.Items[0].Longitude)
}

func TestSubmitSightingMultipart(t *testing.T) {
	fx := newFixture(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"apiKey":      "flp-2023",
		"title":       "Smoke over the ridge",
		"description": "Grey smoke column visible from the east gate",
		"danger":      "9",
		"visitDate":   "2023-06-14",
		"latitude":    "29.086308",
		"longitude":   "-81.833532",
		"fire":        "true",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("photo", "smoke.jpg")
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader("not-really-a-jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/logs", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := fx.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	out := decode[models.CreateSightingResp](t, resp)
	assert.True(t, strings.HasPrefix(out.Item.Image, "/uploads/photo_"), "got %q", out.Item.Image)
	assert.True(t, out.Item.Fire)
	assert.Equal(t, int32(1), fx.notifier.n.Load())
}

func TestListSightingsBadCursor(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/logs?cursor=nothex", nil)
	resp, err := fx.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListSightingsBadBbox(t *testing.T) {
	fx := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/logs?bbox=1,1,0,0", nil)
	resp, err := fx.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterEmail(t *testing.T) {
	fx := newFixture(t)

	resp := postJSON(t, fx.app, "/api/emails", fiber.Map{"email": "resident@example.com"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	out := decode[models.RegistrationResp](t, resp)
	assert.True(t, out.OK)
	assert.NotEmpty(t, out.ID)

	// Second attempt: exactly one stored record, conflict reported.
	resp = postJSON(t, fx.app, "/api/emails", fiber.Map{"email": "resident@example.com"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	errOut := decode[controllers.ErrorResp](t, resp)
	assert.Equal(t, "email already registered", errOut.Error)
	assert.Len(t, fx.emails.regs, 1)
}

func TestRegisterEmailInvalid(t *testing.T) {
	fx := newFixture(t)
	resp := postJSON(t, fx.app, "/api/emails", fiber.Map{"email": "a@b.c"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, fx.emails.regs)
}

func TestRegisterPhoneLengths(t *testing.T) {
	fx := newFixture(t)

	resp := postJSON(t, fx.app, "/api/phones", fiber.Map{"number": "123456789"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, fx.app, "/api/phones", fiber.Map{"number": "12345678"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, fx.app, "/api/phones", fiber.Map{"number": "1234567890"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Len(t, fx.phones.regs, 1)
}

func TestRegisterPhoneDuplicate(t *testing.T) {
	fx := newFixture(t)
	resp := postJSON(t, fx.app, "/api/phones", fiber.Map{"number": "123456789"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = postJSON(t, fx.app, "/api/phones", fiber.Map{"number": "123-456-789"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "stripped digits collide")
}

func TestBroadcastEndpoint(t *testing.T) {
	fx := newFixture(t)
	fx.broadcast.sum = alerts.Summary{RunID: "run-1", Recipients: 5, Sent: 4, Failed: 1}

	resp := postJSON(t, fx.app, "/api/fire-alert", fiber.Map{})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[models.BroadcastResp](t, resp)
	assert.Equal(t, 5, out.Recipients)
	assert.Equal(t, 4, out.Sent)
	assert.Equal(t, 1, out.Failed)
}

func TestBroadcastEndpointStoreFailure(t *testing.T) {
	fx := newFixture(t)
	fx.broadcast.err = errors.New("list alert recipients: mongo unreachable")
	resp := postJSON(t, fx.app, "/api/fire-alert", fiber.Map{})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestTextGetCarriers(t *testing.T) {
	fx := newFixture(t)
	resp := postJSON(t, fx.app, "/api/text", fiber.Map{"getcarriers": "1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[models.TextResp](t, resp)
	assert.True(t, out.Success)
	assert.Contains(t, out.Carriers, "verizon")
	assert.Empty(t, fx.texts.calls)
}

func TestTextInvalidNumber(t *testing.T) {
	fx := newFixture(t)
	resp := postJSON(t, fx.app, "/api/text", fiber.Map{"number": "12345", "message": "hi"})
	out := decode[models.TextResp](t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "Invalid phone number.", out.Message)
	assert.Empty(t, fx.texts.calls)
}

func TestTextMissingMessage(t *testing.T) {
	fx := newFixture(t)
	resp := postJSON(t, fx.app, "/api/text", fiber.Map{"number": "5551234567"})
	out := decode[models.TextResp](t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "Number and message parameters are required.", out.Message)
}

func TestTextUnknownCarrier(t *testing.T) {
	fx := newFixture(t)
	fx.texts.err = fmt.Errorf("%q: %w", "pigeon", sms.ErrUnknownCarrier)
	resp := postJSON(t, fx.app, "/api/text", fiber.Map{"number": "5551234567", "message": "hi", "carrier": "pigeon"})
	out := decode[models.TextResp](t, resp)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "not supported")
}

func TestTextTenDigitsAccepted(t *testing.T) {
	fx := newFixture(t)
	resp := postJSON(t, fx.app, "/api/text", fiber.Map{"number": "(555) 123-4567", "message": "hi", "carrier": "verizon"})
	out := decode[models.TextResp](t, resp)
	assert.True(t, out.Success)
	require.Len(t, fx.texts.calls, 1)
	assert.Equal(t, "5551234567", fx.texts.calls[0])
}
