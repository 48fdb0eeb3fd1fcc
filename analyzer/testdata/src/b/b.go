package b

type Link struct {
	Url string
}

func (l Link) URL() string { // want `"URL" contains abbreviation`
	return l.Url
}

func Apply(FUNC func()) { // want `"FUNC" contains abbreviation`
	FUNC()
}

func Lookup() int {
	url := 1
	URL := 2 // want `"URL" contains abbreviation`
	return url + URL
}
