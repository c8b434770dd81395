package scene

// defaultScenes は世界各地を旅するトラのシーン集です。
var defaultScenes = []string{
	"Waving hello from the top of the Eiffel Tower in Paris",
	"Riding a gondola through the canals of Venice",
	"Playing samba drums at the Rio de Janeiro carnival",
	"Hugging a koala in front of the Sydney Opera House",
	"Building a sandcastle next to the Great Pyramids of Giza",
	"Walking along the Great Wall of China with a backpack",
	"Eating sushi under cherry blossom trees in Kyoto",
	"Riding a camel across the Sahara desert dunes",
	"Skiing down the Swiss Alps wearing a scarf",
	"Taking a selfie with Big Ben in London",
	"Dancing with a sombrero in a plaza in Mexico City",
	"Exploring the ruins of Machu Picchu with a map",
	"Wearing a tiny crown next to the Taj Mahal in India",
	"Watching the Northern Lights from an igloo in Iceland",
	"Surfing a big wave on a beach in Hawaii",
	"Feeding pigeons at Piazza San Marco in Venice",
	"Holding a pretzel at a festival in Munich",
	"Sailing a small boat past the Statue of Liberty in New York",
	"Going on a safari with giraffes in Kenya",
	"Reading a book inside a windmill in the Netherlands",
	"Playing football on Copacabana beach",
	"Painting a picture in front of the Colosseum in Rome",
	"Riding a tuk-tuk through the streets of Bangkok",
	"Climbing Sugarloaf Mountain in a cable car",
}

var defaultCatalog = MustNewCatalog(defaultScenes)

// Default は組み込みのシーンカタログを返します。
func Default() *Catalog {
	return defaultCatalog
}

// DefaultScenes は組み込みシーンのコピーを返します。設定ファイルの雛形用です。
func DefaultScenes() []string {
	return defaultCatalog.Scenes()
}
