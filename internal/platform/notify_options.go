package platform

const defaultTimeoutMS = 5000

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image file shown alongside the notification on
	// platforms that support preview icons.
	IconPath string
	// TimeoutMS overrides how long the notification stays visible. Zero
	// means the platform default.
	TimeoutMS int
}

func (o Options) timeoutMS() int {
	if o.TimeoutMS <= 0 {
		return defaultTimeoutMS
	}
	return o.TimeoutMS
}
