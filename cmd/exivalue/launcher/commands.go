package launcher

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-exi-asset/channel"
	"github.com/rony4d/go-exi-asset/charset"
	"github.com/rony4d/go-exi-asset/codec"
	"github.com/rony4d/go-exi-asset/datatype"
	"github.com/rony4d/go-exi-asset/flags"
	"github.com/rony4d/go-exi-asset/pattern"
	"github.com/rony4d/go-exi-asset/values"
)

var (
	encodeCommand = cli.Command{
		Name:      "encode",
		Usage:     "Encode lexical values into one stream, printed as hex",
		ArgsUsage: "<value> [<value>...]",
		Flags:     flags.DatatypeFlags(),
		Action:    encodeAction,
	}
	decodeCommand = cli.Command{
		Name:      "decode",
		Usage:     "Decode --count values from a hex stream, one per line",
		ArgsUsage: "<hex>",
		Flags:     flags.DatatypeFlags(),
		Action:    decodeAction,
	}
	charsetCommand = cli.Command{
		Name:   "charset",
		Usage:  "Print the restricted character set of --pattern or --type",
		Flags:  flags.DatatypeFlags(),
		Action: charsetAction,
	}
)

// setup resolves the config and logger every command starts from.
func setup(ctx *cli.Context) (Config, *logrus.Entry, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return Config{}, nil, err
	}
	log, err := setupLogging(cfg.Logging, ctx.App.ErrWriter)
	if err != nil {
		return Config{}, nil, err
	}
	registry.SetLogger(log.WithField("module", "charset"))
	return cfg, log, nil
}

// resolveDatatype picks the pattern-restricted string datatype when a
// pattern is set and the named built-in otherwise.
func resolveDatatype(cfg DatatypeConfig) (datatype.Datatype, error) {
	if cfg.Pattern != "" {
		dt, err := datatype.ForPattern(registry, cfg.Pattern)
		if err != nil {
			return nil, err
		}
		return dt, nil
	}
	return datatype.ForName(cfg.Type)
}

func encodeAction(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	dt, err := resolveDatatype(cfg.Datatype)
	if err != nil {
		return err
	}
	if ctx.NArg() == 0 {
		return errors.New("encode: no values given")
	}

	var bitLen int
	raw, err := codec.MarshalAdapter(cfg.Codec.Alignment, func(e *codec.Encoder) error {
		for _, text := range ctx.Args() {
			v, ok := dt.Parse(text)
			if !ok {
				return errors.Wrapf(datatype.ErrInvalidValue, "%v: %q", dt.BuiltInType(), text)
			}
			if err := dt.Write(e, v); err != nil {
				return err
			}
		}
		bitLen = e.BitLen()
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	body, err := channel.Compress(cfg.Codec.Compression, raw, cfg.Codec.CompressionLevel)
	if err != nil {
		return errors.Wrap(err, "compress")
	}

	log.WithFields(logrus.Fields{
		"type":        dt.BuiltInType(),
		"values":      ctx.NArg(),
		"alignment":   cfg.Codec.Alignment,
		"compression": cfg.Codec.Compression,
		"bits":        bitLen,
		"raw":         len(raw),
		"size":        len(body),
	}).Debug("Encoded values")
	_, err = fmt.Fprintln(ctx.App.Writer, hexutil.Encode(body))
	return err
}

func decodeAction(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	dt, err := resolveDatatype(cfg.Datatype)
	if err != nil {
		return err
	}
	if ctx.NArg() != 1 {
		return errors.Errorf("decode: expected one hex argument, got %d", ctx.NArg())
	}

	input := strings.TrimSpace(ctx.Args().First())
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		input = "0x" + input
	}
	body, err := hexutil.Decode(input)
	if err != nil {
		return errors.Wrap(err, "decode hex")
	}
	raw, err := channel.Decompress(cfg.Codec.Compression, body)
	if err != nil {
		return errors.Wrap(err, "decompress")
	}

	var decoded []values.Value
	err = codec.UnmarshalAdapter(cfg.Codec.Alignment, raw, func(d *codec.Decoder) error {
		for i := 0; i < cfg.Datatype.Count; i++ {
			v, err := dt.Read(d)
			if err != nil {
				return errors.Wrapf(err, "value %d", i)
			}
			decoded = append(decoded, v)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("size", len(raw)).Error("Undecodable stream")
		return errors.Wrap(err, "decode")
	}

	log.WithFields(logrus.Fields{
		"type":   dt.BuiltInType(),
		"values": len(decoded),
		"size":   len(raw),
	}).Debug("Decoded values")
	for _, v := range decoded {
		if _, err := fmt.Fprintln(ctx.App.Writer, dt.Format(v)); err != nil {
			return err
		}
	}
	return nil
}

func charsetAction(ctx *cli.Context) error {
	cfg, _, err := setup(ctx)
	if err != nil {
		return err
	}

	var set *charset.CharacterSet
	if cfg.Datatype.Pattern != "" {
		alphabet, err := pattern.Derive(cfg.Datatype.Pattern)
		if err != nil {
			return errors.Wrapf(err, "pattern %q", cfg.Datatype.Pattern)
		}
		if alphabet.Unrestricted {
			_, err := fmt.Fprintln(ctx.App.Writer, "unrestricted")
			return err
		}
		if set, err = registry.Get(alphabet.CodePoints); err != nil {
			return err
		}
	} else if set = charset.Builtin(cfg.Datatype.Type); set == nil {
		return errors.Errorf("charset: type %q has no restricted character set", cfg.Datatype.Type)
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "size: %d\n", set.Size())
	fmt.Fprintf(w, "bits: %d\n", set.CodingLength())
	for code, cp := range set.CodePoints() {
		fmt.Fprintf(w, "%d\t%U\t%q\n", code, cp, cp)
	}
	_, err = fmt.Fprintf(w, "%d\tescape\n", set.Size())
	return err
}
