// Package ut181a models the measurements of a UNI-T UT181A digital multimeter:
// its measuring modes, the range steps each mode family uses, the four shapes
// of a reading and their text presentation.
//
// The transport to the meter is not part of this package. Anything that can
// talk to a meter implements Device.
package ut181a
