// Package cipherform provides a Go client for a remote cipher backend that
// encrypts and decrypts messages with OTP, Triple DES, AES or RSA.
//
// The client never performs cipher math itself. It validates a request
// locally, builds the normalized payload and forwards it to the backend's
// /encrypt or /decrypt endpoint, mapping the answer back to a [Result] or a
// typed error. The validation rules, key synchronizer and payload builder
// live in the presentation-independent [github.com/cnslab/cipherform-go/algorithm]
// package.
//
// Basic usage:
//
//	client, err := cipherform.New(cipherform.WithBaseURL("http://localhost:5000"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	st := &algorithm.State{
//	    Message:   "attack at dawn",
//	    Key:       "0123456789abcdef",
//	    Algorithm: algorithm.AES,
//	    Operation: algorithm.Encrypt,
//	}
//	res, err := client.Submit(ctx, st)
//	if err != nil {
//	    fmt.Println(cipherform.ReasonOf(err))
//	    return
//	}
//	fmt.Println(res.Text)
//
// Interactive front ends should use a [Session], which keeps a one-time-pad
// key as long as its message while the user types and makes sure only the
// latest submission updates what is displayed.
package cipherform
