// Package codec converts temporal values to and from their external forms.
//
// Three forms are supported:
//   - a little-endian binary layout with an offset table for O(1) access to
//     any element (Encode, Decode, DecodeInstantN, DecodeSequenceN);
//   - the text literal grammar (Parse, ParseAs, Format), for example
//     [1.5@2000-01-01T00:00:00Z, 2@2000-01-01T00:00:10Z);
//   - canonical JSON (MarshalJSON), with sorted keys, no HTML escaping and
//     NFC normalized strings, used for CLI output and golden traces.
//
// Decoders validate their input through the temporal constructors. A value
// that decodes successfully satisfies every shape invariant.
package codec
