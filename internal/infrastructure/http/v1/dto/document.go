package dto

// CreateDocumentRequest explicitly opens a new document.
type CreateDocumentRequest struct {
	Type     string `json:"type" binding:"required"`
	ClientID string `json:"clientId" binding:"required"`
}

// AddItemRequest appends a blade to a document.
type AddItemRequest struct {
	BladeID string `json:"bladeId" binding:"required"`
}

// DocumentListQuery filters document listings.
type DocumentListQuery struct {
	Type     string `form:"type"`
	ClientID string `form:"clientId"`
	Status   string `form:"status"`
	Year     int    `form:"year"`
	Month    int    `form:"month"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// OpenDocumentsQuery selects open documents for a (type, client) pair.
type OpenDocumentsQuery struct {
	Type     string `form:"type" binding:"required"`
	ClientID string `form:"clientId" binding:"required"`
}
