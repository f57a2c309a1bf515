// Package vision turns camera frames into the bird's-eye edge masks the
// lane fitter searches, using OpenCV through gocv.
package vision
