package dto

// FileUploadResponse returns the storage token of an uploaded file. The
// token is what issue and comment file lists hold.
type FileUploadResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
