package clipboard

import "strings"

// fragmentPrefix marks serialized annotation fragments on the text clipboard so
// a paste can tell them apart from ordinary text.
const fragmentPrefix = "application/x-snipmark-fragment;"

// WriteFragment publishes a serialized annotation fragment to the clipboard.
func WriteFragment(data []byte) error {
	return WriteText(fragmentPrefix + string(data))
}

// ReadFragment returns the annotation fragment on the clipboard, if any. The
// second result is false when the clipboard holds something else; that is not
// an error.
func ReadFragment() ([]byte, bool, error) {
	text, err := ReadText()
	if err != nil {
		return nil, false, err
	}
	if !strings.HasPrefix(text, fragmentPrefix) {
		return nil, false, nil
	}
	return []byte(strings.TrimPrefix(text, fragmentPrefix)), true, nil
}
