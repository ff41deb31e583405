package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bioskop-cli/model"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{email: "user.name@mail.co", want: nil},
		{email: "user_01@bioskop.id", want: nil},
		{email: "a.b@sub.mail.com", want: nil},
		{email: "", want: ErrEmailRequired},
		{email: "user@@x", want: ErrEmailDomain},
		{email: "user#x@mail.com", want: ErrEmailForbidden},
		{email: "user..x@mail.com", want: ErrEmailRepeated},
		{email: "user._x@mail.com", want: ErrEmailRepeated},
		{email: "user x@mail.com", want: ErrEmailCharset},
		{email: "_user@mail.com", want: ErrEmailFormat},
		{email: "user.@mail.com", want: ErrEmailFormat},
		{email: "user@mail", want: ErrEmailDomain},
		{email: "user@mail.c", want: ErrEmailDomain},
		{email: "user@mail.c0m", want: ErrEmailDomain},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.email))
		})
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password   string
		wantScore  int
		wantLabel  string
		acceptable bool
	}{
		{password: "", wantScore: 0, wantLabel: "Very Weak"},
		{password: "abc", wantScore: 1, wantLabel: "Weak"},
		{password: "abcdefgh", wantScore: 2, wantLabel: "Weak"},
		{password: "abcdefG1", wantScore: 4, wantLabel: "Good", acceptable: true},
		{password: "Abc1", wantScore: 3, wantLabel: "Fair", acceptable: true},
		{password: "Abcdef1!", wantScore: 5, wantLabel: "Strong", acceptable: true},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			s := PasswordStrength(tt.password)
			assert.Equal(t, tt.wantScore, s.Score())
			assert.Equal(t, tt.wantLabel, s.Label())
			assert.Equal(t, tt.acceptable, s.Acceptable())
		})
	}

	s := PasswordStrength("abc")
	assert.False(t, s.Length)
	assert.False(t, s.Uppercase)
	assert.True(t, s.Lowercase)
	assert.False(t, s.Number)
	assert.False(t, s.Special)
}

func TestRegistration(t *testing.T) {
	v := New()

	valid := model.Registration{
		Name:                 "Rina",
		Email:                "rina.putri@mail.co",
		Password:             "Abcdef1!",
		PasswordConfirmation: "Abcdef1!",
	}
	require.NoError(t, v.Struct(valid))

	weak := valid
	weak.Password = "abc"
	weak.PasswordConfirmation = "abc"
	errs, ok := AsErrors(v.Struct(weak))
	require.True(t, ok)
	assert.Contains(t, errs.Field("password"), "strength too low")
	assert.Empty(t, errs.Field("password_confirmation"))

	mismatch := valid
	mismatch.PasswordConfirmation = "Abcdef1?"
	errs, ok = AsErrors(v.Struct(mismatch))
	require.True(t, ok)
	assert.Equal(t, "passwords do not match", errs.Field("password_confirmation"))

	badEmail := valid
	badEmail.Email = "user..x@mail.com"
	errs, ok = AsErrors(v.Struct(badEmail))
	require.True(t, ok)
	assert.Equal(t, ErrEmailRepeated.Error(), errs.Field("email"))
	assert.Equal(t, ErrEmailRepeated.Error(), errs.First())

	errs, ok = AsErrors(v.Struct(model.Registration{}))
	require.True(t, ok)
	assert.Len(t, errs, 4)
	assert.Equal(t, "is required", errs.Field("name"))
}

func TestPasswordReset(t *testing.T) {
	v := New()
	reset := model.PasswordReset{Email: "a@b.co", Token: "t0k", Password: "x", PasswordConfirmation: "y"}
	errs, ok := AsErrors(v.Struct(reset))
	require.True(t, ok)
	assert.Equal(t, "passwords do not match", errs.First())

	reset.PasswordConfirmation = "x"
	assert.NoError(t, v.Struct(reset))
}

func TestFilmForm(t *testing.T) {
	v := New()

	form := model.FilmForm{Title: "Gowes", Price: "45000", ReleaseDate: "2026-06-10", Duration: "95"}
	require.NoError(t, v.Struct(form))

	bad := model.FilmForm{Price: "-1", ReleaseDate: "10/06/2026", Duration: "abc"}
	errs, ok := AsErrors(v.Struct(bad))
	require.True(t, ok)
	assert.Equal(t, "is required", errs.Field("judul"))
	assert.Equal(t, "must be a non-negative amount", errs.Field("harga_tiket"))
	assert.Equal(t, "must be a date (YYYY-MM-DD)", errs.Field("tanggal_rilis"))
	assert.Equal(t, "must be a positive whole number", errs.Field("durasi"))
}

func TestBookingRequest(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(model.BookingRequest{FilmId: 1, Quantity: 2}))

	errs, ok := AsErrors(v.Struct(model.BookingRequest{FilmId: 1, Quantity: 0}))
	require.True(t, ok)
	assert.Equal(t, "must be at least 1", errs.Field("jumlah_tiket"))

	assert.Error(t, v.Struct(model.BookingUpdate{Status: "done"}))
	assert.NoError(t, v.Struct(model.BookingUpdate{Status: "confirmed"}))
}

// 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestPoster(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "poster.png")
	require.NoError(t, os.WriteFile(png, tinyPNG, 0o644))
	mime, err := Poster(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	text := filepath.Join(dir, "poster.txt")
	require.NoError(t, os.WriteFile(text, []byte("not an image"), 0o644))
	_, err = Poster(text)
	assert.ErrorIs(t, err, ErrPosterType)

	_, err = Poster(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	_, err = PosterContent("image/jpeg", MaxPosterSize+1)
	assert.ErrorIs(t, err, ErrPosterSize)

	mime, err = DetectPoster(tinyPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}
