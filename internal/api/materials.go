package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/uniportfoc/elibrary-client/internal/errs"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// DefaultDownloadName is used when the server omits a filename.
const DefaultDownloadName = "document.pdf"

// MaterialsClient speaks the materials listing, detail, download and upload
// endpoints.
type MaterialsClient struct {
	c *Client
}

// NewMaterialsClient wires the shared client.
func NewMaterialsClient(c *Client) *MaterialsClient {
	return &MaterialsClient{c: c}
}

// List returns the full library listing.
func (m *MaterialsClient) List(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	if err := m.c.getJSON(ctx, "/materials", "", &out, "failed to fetch materials"); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single material by id.
func (m *MaterialsClient) Get(ctx context.Context, id string) (model.Material, error) {
	var out model.Material
	if err := m.c.getJSON(ctx, "/materials/"+id, "", &out, "failed to fetch material"); err != nil {
		return model.Material{}, err
	}
	return out, nil
}

// DownloadResult is the raw file plus the server-suggested filename.
type DownloadResult struct {
	Filename string
	Data     []byte
}

// Download fetches the material's bytes, taking the filename from the
// content-disposition header and defaulting when absent.
func (m *MaterialsClient) Download(ctx context.Context, id, token string) (DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.c.base+"/materials/"+id, nil)
	if err != nil {
		return DownloadResult{}, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.c.hc.Do(req)
	if err != nil {
		return DownloadResult{}, &errs.APIError{Message: "failed to download material", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return DownloadResult{}, m.c.errorFrom(resp, "failed to download material")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return DownloadResult{}, &errs.APIError{Message: "failed to download material", Err: err}
	}
	return DownloadResult{
		Filename: filenameFrom(resp.Header.Get("Content-Disposition")),
		Data:     data,
	}, nil
}

// filenameFrom extracts the suggested filename from a content-disposition
// value, stripping quotes and defaulting to DefaultDownloadName.
func filenameFrom(disposition string) string {
	if disposition == "" {
		return DefaultDownloadName
	}
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := strings.Trim(params["filename"], `"' `); name != "" {
			return name
		}
	}
	// tolerate headers the stdlib parser rejects
	if _, name, ok := strings.Cut(disposition, "filename="); ok {
		if name = strings.Trim(name, `"' `); name != "" {
			return name
		}
	}
	return DefaultDownloadName
}

// Upload creates a material via multipart form data. All fields are required
// and checked before any network call; the call is bearer-authenticated.
func (m *MaterialsClient) Upload(ctx context.Context, up model.MaterialUpload, token string) (model.Material, error) {
	if token == "" {
		return model.Material{}, fmt.Errorf("%w: authentication token is required", errs.ErrValidation)
	}
	if up.Level == "" || up.CourseCode == "" || up.CourseTitle == "" || up.Description == "" || len(up.File) == 0 {
		return model.Material{}, fmt.Errorf("%w: missing required upload fields", errs.ErrValidation)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("material", up.FileName)
	if err != nil {
		return model.Material{}, err
	}
	if _, err := fw.Write(up.File); err != nil {
		return model.Material{}, err
	}
	for field, value := range map[string]string{
		"level":       up.Level,
		"courseCode":  up.CourseCode,
		"courseTitle": up.CourseTitle,
		"description": up.Description,
	} {
		if err := w.WriteField(field, value); err != nil {
			return model.Material{}, err
		}
	}
	if err := w.Close(); err != nil {
		return model.Material{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.c.base+"/materials", &buf)
	if err != nil {
		return model.Material{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var out model.Material
	if err := m.c.do(req, &out, "upload failed"); err != nil {
		return model.Material{}, err
	}
	return out, nil
}
