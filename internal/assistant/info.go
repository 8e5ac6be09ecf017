package assistant

// RestaurantInfo holds the static facts the assistant answers for free,
// without touching the catalog or the remote model.
type RestaurantInfo struct {
	Name          string `yaml:"name"`
	Tagline       string `yaml:"tagline"`
	Address       string `yaml:"address"`
	District      string `yaml:"district"`
	Phone         string `yaml:"phone"`
	WhatsApp      string `yaml:"whatsapp"`
	HoursBengali  string `yaml:"hours_bn"`
	HoursEnglish  string `yaml:"hours_en"`
	UPIID         string `yaml:"upi_id"`
	Specialties   string `yaml:"specialties"`
	GoogleMapsURL string `yaml:"google_maps_url"`
}

// DefaultRestaurantInfo returns the Atithi Family Restaurant facts.
func DefaultRestaurantInfo() RestaurantInfo {
	return RestaurantInfo{
		Name:          "Atithi Family Restaurant",
		Tagline:       "অতিথি দেবো ভব - Guest is God",
		Address:       "National Highway 14, Near Gurukulpara, Tilai, Kutigram, Hattala, Rampurhat - 731224, West Bengal",
		District:      "Birbhum",
		Phone:         "7076445512",
		WhatsApp:      "7076445512",
		HoursBengali:  "সকাল ৭টা থেকে রাত ১১টা পর্যন্ত খোলা থাকে।",
		HoursEnglish:  "Open from 7 AM to 11 PM.",
		UPIID:         "7076445512@ybl",
		Specialties:   "Bengali cuisine, North Indian, Chinese, South Indian, Tandoor",
		GoogleMapsURL: "https://www.google.com/maps/place/Atithi+Family+Restaurant",
	}
}
