package model

// Photo описывает фото события (строку листа Fotos). Фото только читаются.
type Photo struct {
	ID        string `json:"id"`
	EventID   string `json:"eventoId"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	DriveID   string `json:"driveId"`
	Order     string `json:"ordem"`
	CreatedAt string `json:"criadoEm"`
	UpdatedAt string `json:"atualizadoEm"`
	Active    string `json:"ativo"`
	Credit    string `json:"credito"`
}
