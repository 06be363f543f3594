//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// xImageToRGBA converts a GetImage reply in the server's native ZPixmap
// layout (little-endian BGRA or BGR) into an RGBA image. subject names the
// capture target for error messages.
func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int, subject string) (*image.RGBA, error) {
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%s has empty geometry", subject)
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("%s pixels: empty image data", subject)
	}

	bytesPerPixel, err := pixmapBytesPerPixel(setup, reply.Depth, subject)
	if err != nil {
		return nil, err
	}

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) || stride < width*bytesPerPixel {
		return nil, fmt.Errorf("%s pixels: unexpected stride", subject)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride:]
		for x := 0; x < width; x++ {
			src := x * bytesPerPixel
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = row[src+2]
			img.Pix[dst+1] = row[src+1]
			img.Pix[dst+2] = row[src+0]
			if bytesPerPixel >= 4 && reply.Depth == 32 {
				img.Pix[dst+3] = row[src+3]
			} else {
				img.Pix[dst+3] = 0xFF
			}
		}
	}
	return img, nil
}

func pixmapBytesPerPixel(setup *xproto.SetupInfo, depth byte, subject string) (int, error) {
	for _, format := range setup.PixmapFormats {
		if format.Depth == depth {
			if format.BitsPerPixel < 24 {
				return 0, fmt.Errorf("unsupported %s pixel format %d bpp", subject, format.BitsPerPixel)
			}
			return int(format.BitsPerPixel) / 8, nil
		}
	}
	return 0, fmt.Errorf("unsupported %s depth %d", subject, depth)
}
