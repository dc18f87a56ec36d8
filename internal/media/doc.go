// Package media generates entry thumbnails.
//
// A Generator picks a strategy from the source file: video frames come from
// a VideoCodec, common stills are decoded in-process with the imaging
// library, wide-gamut stills (EXR, HDR, PSD and friends) go through libvips
// with the codec as a fallback, and FBX models are handed to a
// SceneRenderer. Every strategy writes <entry>/thumbnail.png atomically and
// reports a bool; failures are logged and counted, never returned.
package media
