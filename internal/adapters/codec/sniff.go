package codec

import (
	filetype "gopkg.in/h2non/filetype.v1"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// SniffLength is the number of leading bytes needed for detection
const SniffLength = 262

// Sniffer classifies files by magic bytes instead of extension
type Sniffer struct{}

func NewSniffer() *Sniffer {
	return &Sniffer{}
}

// Sniff returns KindVideo for video containers, KindAnimated for GIF,
// KindImage for other images and KindUnsupported when nothing matched
func (s *Sniffer) Sniff(head []byte) domain.Kind {
	if len(head) > SniffLength {
		head = head[:SniffLength]
	}

	switch {
	case filetype.IsVideo(head):
		return domain.KindVideo
	case filetype.Is(head, "gif"):
		return domain.KindAnimated
	case filetype.IsImage(head):
		return domain.KindImage
	default:
		return domain.KindUnsupported
	}
}
