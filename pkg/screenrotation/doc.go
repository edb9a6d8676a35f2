// Package screenrotation turns accelerometer tilt readings into display
// rotations. A Runtime reads samples from a serial accelerometer, classifies
// one axis into an orientation, and rewrites the layout of a GNOME Mutter
// session over D-Bus so the configured display follows the device.
package screenrotation
