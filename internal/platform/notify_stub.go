//go:build !linux && !darwin && !windows

package platform

// Notify silently drops notifications on platforms without a known
// notification service.
func Notify(title, body string, _ Options) error {
	return nil
}
