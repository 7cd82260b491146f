package download

import (
	"context"
	"io"
	"os"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

const chunkSize = 8 * 1024

// copyStream writes src into path, appending when resume is set and
// truncating otherwise. Cancellation is checked between chunks; an
// interrupted copy leaves the partial file in place so it can be resumed.
// offset is the length already present when resuming and only feeds progress.
func copyStream(ctx context.Context, path string, src io.Reader, resume bool, offset, total int64, progress ProgressFunc) (int64, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if resume {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		offset = 0
	}

	dst, err := os.OpenFile(path, flags, fsutil.FileModeDefault)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrConfiguration, "cannot open destination %s: %v", path, err)
	}

	written, copyErr := copyChunks(ctx, dst, src, offset, total, progress)
	if closeErr := dst.Close(); copyErr == nil && closeErr != nil {
		copyErr = errors.Transport(closeErr, "failed to close destination")
	}
	return written, copyErr
}

func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, offset, total int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, errors.Interrupted(err)
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, errors.Transport(err, "failed to write destination")
			}
			written += int64(n)
			if progress != nil {
				progress(offset+written, total)
			}
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			if err := ctx.Err(); err != nil {
				return written, errors.Interrupted(err)
			}
			return written, errors.Transport(readErr, "failed to read body")
		}
	}
}
