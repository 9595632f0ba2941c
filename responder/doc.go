// SPDX-License-Identifier: MIT

/*
Package responder answers HTTP (method, path, headers) tuples against a
borrowed pack.ArchivedPack. It performs no I/O, holds no per-request state,
and never logs — callers adapt Response to their HTTP server's body type.

	archived, mapped, err := pack.MapFile("assets.pack")
	if err != nil {
	    return err
	}
	defer mapped.Close()

	r := responder.New(archived, responder.Options{})

	resp := r.RespondFlatten(responder.Request{
	    Method: req.Method,
	    Path:   req.URL.Path,
	    Header: req.Header,
	})
	for key, values := range resp.Header {
	    for _, v := range values {
	        w.Header().Add(key, v)
	    }
	}
	w.WriteHeader(resp.Status)
	if resp.Body != nil {
	    w.Write(resp.Body)
	}

Respond returns a typed error (ErrMethodNotAllowed, ErrNotFound,
ErrNotAcceptable) for callers that want to handle each case themselves;
RespondFlatten converts the same errors into the canonical HTTP response.
*/
package responder
