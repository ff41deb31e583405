package model

type Promotion struct {
	Id          int
	Title       string
	Description string
	Discount    string
	ValidUntil  string
	Category    string
	Terms       []string
}

// Promotions is the promotion catalogue shipped with the client; the API has
// no endpoint for it.
func Promotions() []Promotion {
	return []Promotion{
		{
			Id:          1,
			Title:       "Weekend Special",
			Description: "Diskon 30% untuk tiket weekend",
			Discount:    "30%",
			ValidUntil:  "2026-12-31",
			Category:    "weekend",
			Terms:       []string{"Berlaku Sabtu-Minggu", "Maksimal 4 tiket", "Tidak berlaku hari libur"},
		},
		{
			Id:          2,
			Title:       "Student Discount",
			Description: "Potongan 25% untuk mahasiswa",
			Discount:    "25%",
			ValidUntil:  "2026-12-31",
			Category:    "student",
			Terms:       []string{"Wajib tunjukkan KTM", "Berlaku setiap hari", "Minimal pembelian 1 tiket"},
		},
		{
			Id:          3,
			Title:       "Family Package",
			Description: "Beli 3 tiket gratis 1 popcorn",
			Discount:    "GRATIS",
			ValidUntil:  "2026-12-31",
			Category:    "family",
			Terms:       []string{"Minimal 3 tiket", "Gratis popcorn medium", "Berlaku setiap hari"},
		},
		{
			Id:          4,
			Title:       "Birthday Special",
			Description: "Tiket gratis di bulan ulang tahun",
			Discount:    "100%",
			ValidUntil:  "2026-12-31",
			Category:    "birthday",
			Terms:       []string{"Tunjukkan KTP", "1 tiket gratis per bulan", "Berlaku untuk semua film"},
		},
	}
}
