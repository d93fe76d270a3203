package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/errs"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

func newMaterialsClient(t *testing.T, handler http.Handler) *MaterialsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewMaterialsClient(NewClient(srv.URL, 5*time.Second, zap.NewNop()))
}

func TestMaterialsList(t *testing.T) {
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/materials", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]model.Material{
			{ID: "1", Title: "Intro to OS", Category: "Notes", Downloads: 4},
		})
	}))

	items, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Intro to OS", items[0].Title)
}

func TestMaterialsList_FailureSurfacesStatus(t *testing.T) {
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := m.List(context.Background())
	var apiErr *errs.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 500, apiErr.Status)
	require.Equal(t, "failed to fetch materials", apiErr.Message)
}

func TestMaterialsDownload(t *testing.T) {
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Disposition", `attachment; filename="csc301-notes.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4 data"))
	}))

	res, err := m.Download(context.Background(), "1", "tok")
	require.NoError(t, err)
	require.Equal(t, "csc301-notes.pdf", res.Filename)
	require.Equal(t, []byte("%PDF-1.4 data"), res.Data)
}

func TestMaterialsDownload_DefaultFilename(t *testing.T) {
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bytes"))
	}))

	res, err := m.Download(context.Background(), "1", "")
	require.NoError(t, err)
	require.Equal(t, DefaultDownloadName, res.Filename)
}

func TestFilenameFrom(t *testing.T) {
	cases := map[string]string{
		"":                                          DefaultDownloadName,
		`attachment; filename="a.pdf"`:              "a.pdf",
		`attachment; filename=b.pdf`:                "b.pdf",
		`attachment; filename='quoted.pdf'`:         "quoted.pdf",
		"attachment":                                DefaultDownloadName,
	}
	for in, want := range cases {
		require.Equal(t, want, filenameFrom(in), "disposition %q", in)
	}
}

func TestMaterialsUpload(t *testing.T) {
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "300", r.FormValue("level"))
		require.Equal(t, "CSC301", r.FormValue("courseCode"))
		require.Equal(t, "Operating Systems", r.FormValue("courseTitle"))
		require.Equal(t, "lecture notes", r.FormValue("description"))

		file, hdr, err := r.FormFile("material")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "notes.pdf", hdr.Filename)

		_ = json.NewEncoder(w).Encode(model.Material{ID: "new", Title: "Operating Systems"})
	}))

	created, err := m.Upload(context.Background(), model.MaterialUpload{
		Level:       "300",
		CourseCode:  "CSC301",
		CourseTitle: "Operating Systems",
		Description: "lecture notes",
		FileName:    "notes.pdf",
		File:        []byte("%PDF"),
	}, "tok")
	require.NoError(t, err)
	require.Equal(t, "new", created.ID)
}

func TestMaterialsUpload_MissingFieldsRejectedBeforeNetwork(t *testing.T) {
	called := false
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := m.Upload(context.Background(), model.MaterialUpload{CourseCode: "CSC301"}, "tok")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = m.Upload(context.Background(), model.MaterialUpload{
		Level: "300", CourseCode: "CSC301", CourseTitle: "OS", Description: "d", File: []byte("x"),
	}, "")
	require.ErrorIs(t, err, errs.ErrValidation)
	require.False(t, called)
}

func TestMaterialsUpload_ServerMessage(t *testing.T) {
	m := newMaterialsClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "file type not allowed"})
	}))

	_, err := m.Upload(context.Background(), model.MaterialUpload{
		Level: "300", CourseCode: "CSC301", CourseTitle: "OS", Description: "d",
		FileName: "x.exe", File: []byte("x"),
	}, "tok")
	var apiErr *errs.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "file type not allowed", apiErr.Message)
	require.Equal(t, 400, apiErr.Status)
}
