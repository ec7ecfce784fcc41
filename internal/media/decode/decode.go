package decode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"cadence/internal/services"
)

const component = "decode"

// File decodes the audio file at path into a mono Signal.
func File(ctx context.Context, path string) (Signal, error) {
	if err := ctx.Err(); err != nil {
		return Signal{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Signal{}, services.Wrap(services.ErrNotFound, component, "open", path, err)
		}
		return Signal{}, services.Wrap(services.ErrDecode, component, "open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Signal{}, services.Wrap(services.ErrDecode, component, "stat", path, err)
	}
	if info.IsDir() {
		return Signal{}, services.Wrap(services.ErrDecode, component, "open", path+" is a directory", nil)
	}

	format := Sniff(f, path)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Signal{}, services.Wrap(services.ErrDecode, component, "seek", path, err)
	}

	var sig Signal
	switch format {
	case FormatWAV:
		sig, err = decodeWAV(ctx, f)
	case FormatMP3:
		sig, err = decodeMP3(ctx, f)
	case FormatFLAC:
		sig, err = decodeFLAC(ctx, f)
	default:
		return Signal{}, services.Wrap(services.ErrDecode, component, "sniff", fmt.Sprintf("unsupported container for %s", path), nil)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Signal{}, ctxErr
		}
		return Signal{}, services.Wrap(services.ErrDecode, component, string(format), path, err)
	}
	if len(sig.Samples) == 0 || sig.SampleRate <= 0 {
		return Signal{}, services.Wrap(services.ErrDecode, component, string(format), path+" contains no samples", nil)
	}
	sig.Format = format
	return sig, nil
}
