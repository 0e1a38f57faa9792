package services

import "github.com/playgrid/arena-system/storage"

// Заглушки для отсутствующих картинок, чтобы фронту всегда было что рендерить.
const (
	placeholderAvatar = "/placeholder.svg?height=40&width=40"
	placeholderImage  = "/placeholder.svg?height=200&width=400"
)

// resolveImage превращает ключ объекта в публичный URL либо заглушку.
func resolveImage(uploader storage.FileUploader, key *string, placeholder string) string {
	if key == nil || *key == "" {
		return placeholder
	}
	if url := uploader.GetPublicURL(*key); url != "" {
		return url
	}
	return placeholder
}

// normalizeAvatar подставляет заглушку вместо пустого значения из представлений,
// где avatar_url уже вычислен базой.
func normalizeAvatar(avatar string) string {
	if avatar == "" {
		return placeholderAvatar
	}
	return avatar
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
