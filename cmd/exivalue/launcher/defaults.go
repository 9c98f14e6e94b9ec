package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before flags override them.

type Defaults struct {
	Codec    CodecDefaults
	Datatype DatatypeDefaults
	Logging  LoggingDefaults
}

// CodecDefaults controls the layout of encoded streams.
type CodecDefaults struct {
	Preset string //	Named layout profile (default, fast, compact, archive) resolved through presets.GetPresetByName. Bit-packed streams share octets between values, byte-aligned streams start every primitive on an octet boundary; compression is applied to the finished stream.
}

// DatatypeDefaults selects how values are parsed and written.
type DatatypeDefaults struct {
	Type    string //	XML Schema built-in type name resolved through datatype.ForName.
	Pattern string //	Optional pattern facet; when set, string values are coded against the derived character set.
	Count   int    //	Number of values the decode command reads from one stream.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	logrus level (0=panic, 1=fatal, 2=error, 3=warn, 4=info, 5=debug, 6=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
	SentryDSN string //	Sentry endpoint; error level entries are forwarded when set.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Codec: CodecDefaults{
			Preset: "default",
		},
		Datatype: DatatypeDefaults{
			Type:  "string",
			Count: 1,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
	}
}
