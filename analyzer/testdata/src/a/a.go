package a

import "fmt"

type HTTPServer struct { // want `"HTTPServer" contains abbreviation HTTP$`
	URLPath string // want `"URLPath" contains abbreviation URL$`
	Port    int
}

func (s *HTTPServer) GetURL() string { // want `"GetURL" contains abbreviation`
	return s.URLPath
}

func NewHTTPServer(baseURL string) *HTTPServer { // want `"NewHTTPServer" contains abbreviation` `"baseURL" contains abbreviation`
	JSONData := fmt.Sprint(baseURL) // want `"JSONData" contains abbreviation`
	return &HTTPServer{URLPath: JSONData}
}

type IDReader interface {
	ReadID() string
}

// abbr:ignore
var APIKey = "secret"

var Name = "plain"
