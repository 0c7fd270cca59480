// Package algorithm is the presentation-independent core of cipherform: the
// per-algorithm constraint registry, the one-time-pad key synchronizer, the
// submit-time validator and the request payload builder.
//
// Nothing here performs I/O. Front ends (the Go client, the HTTP gateway,
// the websocket session, the CLI) own a [State] and pass it by pointer:
//
//	sync, _ := algorithm.NewSynchronizer()
//	st := &algorithm.State{Algorithm: algorithm.OTP, Operation: algorithm.Encrypt}
//	sync.SetMessage(st, "hello") // st.Key is now "00000"
//
//	if err := algorithm.Validate(st); err != nil {
//	    fmt.Println(err) // single human-readable reason
//	}
//	payload, err := algorithm.BuildPayload(st)
//
// # Lengths
//
// All message and key lengths are counted in Unicode code points, so a key of
// sixteen characters is sixteen runes regardless of its UTF-8 byte length.
package algorithm
