package cfg

type Cfg struct {
	// HTTP service
	Port string

	// Loader configuration
	ProxiesFile    string
	FeedHost       string
	ContainerID    string
	FallbackURL    string
	MaxItems       int
	SkeletonCount  int
	ExcerptLength  int
	Timeout        int
	ExtractContent bool

	// One-shot rendering
	Username string
	Once     bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
