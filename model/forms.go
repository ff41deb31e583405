package model

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,bioskop_email"`
	Password             string `json:"password" validate:"required,strength"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type PasswordReset struct {
	Email                string `json:"email" validate:"required"`
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type BookingRequest struct {
	FilmId   int `json:"film_id" validate:"required,gt=0"`
	Quantity int `json:"jumlah_tiket" validate:"min=1,max=10"`
}

type BookingUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// FilmForm holds the admin film fields as typed by the user. PosterPath is a
// local file uploaded as the poster.
type FilmForm struct {
	Title       string `json:"judul" validate:"required,max=255"`
	Description string `json:"deskripsi"`
	Price       string `json:"harga_tiket" validate:"required,rupiah"`
	ReleaseDate string `json:"tanggal_rilis" validate:"omitempty,date_only"`
	Duration    string `json:"durasi" validate:"omitempty,positive_int"`
	Active      bool   `json:"is_active"`
	PosterPath  string `json:"poster" validate:"omitempty,file"`
}

// FilmFormFrom prefills the form from an existing film.
func FilmFormFrom(f Film) FilmForm {
	form := FilmForm{
		Title:       f.Title,
		Description: f.Description,
		ReleaseDate: f.ReleaseDate,
		Active:      bool(f.Active),
	}
	if !f.Price.IsZero() {
		form.Price = f.Price.String()
	}
	if f.Duration > 0 {
		form.Duration = itoa(f.Duration.Int())
	}
	if t, ok := f.Released(); ok {
		form.ReleaseDate = t.Format("2006-01-02")
	}
	return form
}
