package types

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PublicSettings is the settings subset the public site reads on load.
type PublicSettings struct {
	LogoURL          string `json:"logoUrl"`
	LogoURLScrolled  string `json:"logoUrlScrolled"`
	LoginShowEmail   bool   `json:"loginShowEmail"`
	LoginEnableEmail bool   `json:"loginEnableEmail"`
	ShowTeamSection  bool   `json:"showTeamSection"`
}

type Branding struct {
	LogoURL         string `json:"logoUrl"`
	LogoURLScrolled string `json:"logoUrlScrolled"`
}

type LoginOptions struct {
	LoginShowEmail   bool `json:"loginShowEmail"`
	LoginEnableEmail bool `json:"loginEnableEmail"`
}

type UploadedFile struct {
	SecureURL        string `json:"secure_url"`
	URL              string `json:"url"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Size             int64  `json:"size"`
	Format           string `json:"format"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
}
