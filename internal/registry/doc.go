// Package registry persists the soundboard's sound map.
//
// The sound map is a JSON document listing the board's sounds in display
// order along with the selected output device:
//
//	{
//	  "sounds": [
//	    {"title": "Air Horn", "file_name": "airhorn", "shortcut": "1"}
//	  ],
//	  "out_device": -1
//	}
//
// Each file_name names a clip stored as <clip dir>/<file_name>.wav.
package registry
