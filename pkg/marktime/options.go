package marktime

// Policy selects the reference instant elapsed times are measured from.
type Policy string

const (
	// Global measures every row from the earliest event overall.
	Global Policy = "global"
	// Grouped measures each row from the earliest event of its group.
	Grouped Policy = "grouped"
)

type options struct {
	policy    Policy
	patterns  []string
	firstOnly bool
	nfc       bool
	lenient   bool
}

// Option configures a Timeline call.
type Option func(*options)

// WithPolicy sets the reference policy. Default: Global.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithPatterns keeps only events whose message contains one of patterns and
// emits one row per pattern found. Blank patterns are ignored.
func WithPatterns(patterns ...string) Option {
	return func(o *options) {
		o.patterns = append(o.patterns, patterns...)
	}
}

// WithFirstMatchOnly emits at most one row per event, for the first matching
// pattern in the order given to WithPatterns.
func WithFirstMatchOnly() Option {
	return func(o *options) {
		o.firstOnly = true
	}
}

// WithNFC compares patterns and messages in Unicode NFC form, so composed and
// decomposed accents match each other. Default: plain byte containment.
func WithNFC() Option {
	return func(o *options) {
		o.nfc = true
	}
}

// WithLenientTimestamps drops events whose timestamp cannot be parsed instead
// of failing the whole call.
func WithLenientTimestamps() Option {
	return func(o *options) {
		o.lenient = true
	}
}

func defaultOptions() options {
	return options{policy: Global}
}
