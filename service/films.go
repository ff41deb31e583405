package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bioskop-cli/model"
	"bioskop-cli/validate"
)

// FilmService maps film operations onto API calls. List methods return the raw
// decoded body for listing.Normalize.
type FilmService struct {
	client *Client
}

func NewFilmService(c *Client) *FilmService {
	return &FilmService{client: c}
}

// List returns active films.
func (s *FilmService) List(ctx context.Context, page int) (any, error) {
	var body any
	if err := s.client.getJSON(ctx, "/films", pageQuery(page), &body); err != nil {
		return nil, err
	}
	return body, nil
}

// ListAdmin returns every film, inactive ones included.
func (s *FilmService) ListAdmin(ctx context.Context, page int) (any, error) {
	var body any
	if err := s.client.getJSON(ctx, "/admin/films", pageQuery(page), &body); err != nil {
		return nil, err
	}
	return body, nil
}

// Get fetches a single film by slug.
func (s *FilmService) Get(ctx context.Context, slug string) (any, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("film slug is required")
	}
	var body any
	if err := s.client.getJSON(ctx, "/films/"+url.PathEscape(slug), nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *FilmService) Create(ctx context.Context, form model.FilmForm) (any, error) {
	body, err := filmMultipart(form, false)
	if err != nil {
		return nil, err
	}
	var out any
	if err := s.client.do(ctx, request{method: http.MethodPost, path: "/admin/films", body: body}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update sends the form as a POST with a PUT method override so the poster
// can travel as multipart data.
func (s *FilmService) Update(ctx context.Context, id int, form model.FilmForm) (any, error) {
	if id <= 0 {
		return nil, errors.New("film id is required")
	}
	body, err := filmMultipart(form, true)
	if err != nil {
		return nil, err
	}
	var out any
	err = s.client.do(ctx, request{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/admin/films/%d", id),
		body:    body,
		headers: map[string]string{"X-HTTP-Method-Override": http.MethodPut},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FilmService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return errors.New("film id is required")
	}
	return s.client.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/films/%d", id)}, nil)
}

func filmMultipart(form model.FilmForm, override bool) (*requestBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"judul", form.Title},
		{"deskripsi", form.Description},
		{"harga_tiket", strings.TrimSpace(form.Price)},
		{"tanggal_rilis", strings.TrimSpace(form.ReleaseDate)},
	}
	if d := strings.TrimSpace(form.Duration); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			return nil, fmt.Errorf("durasi: %w", err)
		}
		fields = append(fields, [2]string{"durasi", strconv.Itoa(n)})
	}
	active := "0"
	if form.Active {
		active = "1"
	}
	fields = append(fields, [2]string{"is_active", active})
	if override {
		fields = append(fields, [2]string{"_method", http.MethodPut})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}

	if path := strings.TrimSpace(form.PosterPath); path != "" {
		mime, err := validate.Poster(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read poster: %w", err)
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="poster"; filename=%q`, filepath.Base(path)))
		header.Set("Content-Type", mime)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &requestBody{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}
