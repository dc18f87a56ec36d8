// Package codec wraps the ffmpeg and ffprobe binaries used to decode video
// frames and still formats the in-process decoders cannot read (EXR, HDR,
// DDS, PSD and friends). Output is always a PNG on stdout; nothing is written
// to disk.
package codec
