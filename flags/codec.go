package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CodecFlags selects the channel layout of encoded streams.

func CodecFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Stream layout profile (default|fast|compact|archive); explicit layout flags override it",
			Value: "default",
		},
		cli.StringFlag{
			Name:  "alignment",
			Usage: "Stream alignment (bit-packed|byte-aligned)",
			Value: "bit-packed",
		},
		cli.StringFlag{
			Name:  "compression",
			Usage: "Body compression applied after encoding (none|deflate|zstd)",
			Value: "none",
		},
		cli.IntFlag{
			Name:  "compression.level",
			Usage: "Compression level; -1 picks the codec default",
			Value: -1,
		},
	}
}

// DatatypeFlags choose how values are parsed and which codec writes them.
func DatatypeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "type",
			Usage: "XML Schema built-in type of the values (boolean, integer, decimal, double, dateTime, gDay, hexBinary, string, ...)",
			Value: "string",
		},
		cli.StringFlag{
			Name:  "pattern",
			Usage: "XML Schema pattern facet restricting string values to a character set",
		},
		cli.IntFlag{
			Name:  "count",
			Usage: "Number of values to decode from the stream",
			Value: 1,
		},
	}
}
