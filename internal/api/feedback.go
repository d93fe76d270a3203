package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/errs"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// FeedbackClient posts feedback forms to the third-party mail relay.
type FeedbackClient struct {
	endpoint      string
	maxAttachment int64
	hc            *http.Client
	log           *zap.Logger
}

// NewFeedbackClient configures the relay endpoint and the client-side
// attachment size cap.
func NewFeedbackClient(endpoint string, maxAttachment int64, timeout time.Duration, log *zap.Logger) *FeedbackClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
	}
	return &FeedbackClient{
		endpoint:      endpoint,
		maxAttachment: maxAttachment,
		hc:            &http.Client{Transport: transport, Timeout: timeout},
		log:           log,
	}
}

// Submit relays the feedback form. Oversized attachments are rejected before
// any network call; an empty email is sent as "Anonymous".
func (f *FeedbackClient) Submit(ctx context.Context, fb model.Feedback) error {
	if int64(len(fb.Attachment)) > f.maxAttachment {
		return fmt.Errorf("%w: attachment must be smaller than %d MB", errs.ErrValidation, f.maxAttachment>>20)
	}

	email := fb.Email
	if email == "" {
		email = "Anonymous"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"_subject":  "Faculty E-Library Feedback: " + fb.Category,
		"_template": "detailed",
		"feedback":  fb.Feedback,
		"category":  fb.Category,
		"rating":    strconv.Itoa(fb.Rating),
		"email":     email,
	}
	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			return err
		}
	}
	if len(fb.Attachment) > 0 {
		fw, err := w.CreateFormFile("attachment", fb.FileName)
		if err != nil {
			return err
		}
		if _, err := fw.Write(fb.Attachment); err != nil {
			return err
		}
		if err := w.WriteField("_attach_file", "true"); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := f.hc.Do(req)
	if err != nil {
		f.log.Error("feedback: relay unreachable", zap.Error(err))
		return &errs.APIError{Message: "feedback submission failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewAPIError("feedback submission failed", resp.StatusCode)
	}
	return nil
}
