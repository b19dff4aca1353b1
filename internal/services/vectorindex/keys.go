package vectorindex

const (
	collectionPrefix = "collection/"
	pointPrefix      = "point/"
)

func collectionKey(name string) []byte {
	return []byte(collectionPrefix + name)
}

func pointsPrefix(collection string) []byte {
	return []byte(pointPrefix + collection + "/")
}

func pointKey(collection, id string) []byte {
	return []byte(pointPrefix + collection + "/" + id)
}
