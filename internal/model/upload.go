package model

// ImageUpload is a presigned direct-to-storage upload target and the URL the image will be served from.
type ImageUpload struct {
	UploadURL string `json:"uploadUrl"`
	ImageURL  string `json:"imageUrl"`
}
