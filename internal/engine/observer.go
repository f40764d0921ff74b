package engine

import "github.com/kinstone/starbar/internal/domain"

// Observer receives engine change notifications for the presentation layer.
// Callbacks run inside the engine's critical sections, so implementations
// must hand work off without blocking.
type Observer interface {
	// DonationPushed fires exactly once per newly ingested donation.
	DonationPushed(d domain.Donation)
	// MirrorUpdated fires when the campaign total advances or a metadata
	// mirror is replaced. kind is domain.MirrorTotal or a SnapshotKind.
	MirrorUpdated(kind string)
}
