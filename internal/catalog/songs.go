package catalog

// Song is a soundtrack candidate.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Reason string `json:"reason"`
}

// DefaultSongDecade is used when a concept's decade has no song table.
const DefaultSongDecade = Decade2020s

var songs = map[Decade]map[GenreCategory][]Song{
	Decade1950s: {
		GenreHorror: {
			{Title: "Monster Mash", Artist: "Bobby Pickett", Reason: "Classic 50s horror novelty song with vintage charm"},
			{Title: "Fever", Artist: "Peggy Lee", Reason: "Sultry jazz that captures 50s psychological thriller atmosphere"},
			{Title: "Cry Me a River", Artist: "Julie London", Reason: "Dark, moody jazz perfect for film noir horror"},
		},
		GenreSciFi: {
			{Title: "Flying Purple People Eater", Artist: "Sheb Wooley", Reason: "Whimsical 50s sci-fi novelty hit"},
			{Title: "Mr. Sandman", Artist: "The Chordettes", Reason: "Dreamy harmony with otherworldly quality"},
			{Title: "Space Oddity", Artist: "David Bowie", Reason: "Timeless space exploration anthem"},
		},
		GenreDefault: {
			{Title: "Only You", Artist: "The Platters", Reason: "Quintessential 50s romance and drama"},
			{Title: "Great Balls of Fire", Artist: "Jerry Lee Lewis", Reason: "High-energy 50s rock perfect for action scenes"},
			{Title: "Blue Moon", Artist: "Billie Holiday", Reason: "Timeless jazz standard with emotional depth"},
		},
	},
	Decade1980s: {
		GenreHorror: {
			{Title: "Thriller", Artist: "Michael Jackson", Reason: "The ultimate 80s horror anthem with iconic video"},
			{Title: "Somebody's Watching Me", Artist: "Rockwell", Reason: "Paranoid 80s synth-pop perfect for psychological horror"},
			{Title: "Love Song for a Vampire", Artist: "Annie Lennox", Reason: "Gothic new wave with dark romantic themes"},
		},
		GenreSciFi: {
			{Title: "Blue Monday", Artist: "New Order", Reason: "Futuristic synth-pop defining 80s electronic sound"},
			{Title: "Cars", Artist: "Gary Numan", Reason: "Robotic new wave about technology and isolation"},
			{Title: "Sweet Dreams", Artist: "Eurythmics", Reason: "Synth-pop classic with dystopian undertones"},
		},
		GenreDefault: {
			{Title: "Don't Stop Believin'", Artist: "Journey", Reason: "Anthemic 80s rock with emotional crescendo"},
			{Title: "Take On Me", Artist: "a-ha", Reason: "Upbeat synth-pop with innovative production"},
			{Title: "Every Breath You Take", Artist: "The Police", Reason: "Haunting pop with dark surveillance themes"},
		},
	},
	Decade2020s: {
		GenreHorror: {
			{Title: "bad guy", Artist: "Billie Eilish", Reason: "Dark pop with minimalist horror aesthetic"},
			{Title: "Therefore I Am", Artist: "Billie Eilish", Reason: "Menacing pop with psychological edge"},
			{Title: "Bury a Friend", Artist: "Billie Eilish", Reason: "Haunting electropop perfect for modern horror"},
		},
		GenreSciFi: {
			{Title: "Blinding Lights", Artist: "The Weeknd", Reason: "Synthwave hit with retro-futuristic sound"},
			{Title: "Levitating", Artist: "Dua Lipa", Reason: "Disco-pop with space-age production"},
			{Title: "Physical", Artist: "Dua Lipa", Reason: "Electronic dance perfect for action sequences"},
		},
		GenreDefault: {
			{Title: "drivers license", Artist: "Olivia Rodrigo", Reason: "Emotional ballad defining 2020s storytelling"},
			{Title: "Good 4 U", Artist: "Olivia Rodrigo", Reason: "Pop-punk energy perfect for dramatic moments"},
			{Title: "Industry Baby", Artist: "Lil Nas X", Reason: "Genre-blending hit with bold production"},
		},
	},
}

// Songs resolves the candidate list for a decade and genre category.
//
// Resolution order: the decade's table (else DefaultSongDecade's), then the
// category within it (else that table's default), then DefaultSongDecade's
// default list. The returned slice is a copy.
func Songs(d Decade, c GenreCategory) []Song {
	table, ok := songs[d]
	if !ok {
		table = songs[DefaultSongDecade]
	}
	list := table[c]
	if len(list) == 0 {
		list = table[GenreDefault]
	}
	if len(list) == 0 {
		list = songs[DefaultSongDecade][GenreDefault]
	}
	out := make([]Song, len(list))
	copy(out, list)
	return out
}
