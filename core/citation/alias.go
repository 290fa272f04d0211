package citation

// titleAliases maps short and variant title forms to their canonical
// lowercase form. The table is process-wide, immutable static configuration:
// it is consulted read-only and never mutated. Lookups that miss pass the raw
// title through unchanged.
var titleAliases = map[string]string{
	// Genesis
	"gen": "genesis", "ge": "genesis", "gn": "genesis",
	// Exodus
	"exod": "exodus", "exo": "exodus", "ex": "exodus",
	// Leviticus
	"lev": "leviticus", "le": "leviticus", "lv": "leviticus",
	// Numbers
	"num": "numbers", "nu": "numbers", "nm": "numbers",
	// Deuteronomy
	"deut": "deuteronomy", "deu": "deuteronomy", "dt": "deuteronomy",
	// Joshua
	"josh": "joshua", "jos": "joshua",
	// Judges
	"judg": "judges", "jdg": "judges", "jg": "judges",
	// Ruth
	"ru": "ruth", "rth": "ruth",
	// 1 Samuel
	"1sam": "1 samuel", "1 sam": "1 samuel", "1samuel": "1 samuel", "1sa": "1 samuel",
	// 2 Samuel
	"2sam": "2 samuel", "2 sam": "2 samuel", "2samuel": "2 samuel", "2sa": "2 samuel",
	// 1 Kings
	"1kgs": "1 kings", "1 kgs": "1 kings", "1kings": "1 kings", "1ki": "1 kings",
	// 2 Kings
	"2kgs": "2 kings", "2 kgs": "2 kings", "2kings": "2 kings", "2ki": "2 kings",
	// 1 Chronicles
	"1chr": "1 chronicles", "1 chr": "1 chronicles", "1chronicles": "1 chronicles", "1ch": "1 chronicles",
	// 2 Chronicles
	"2chr": "2 chronicles", "2 chr": "2 chronicles", "2chronicles": "2 chronicles", "2ch": "2 chronicles",
	// Ezra
	"ezr": "ezra",
	// Nehemiah
	"neh": "nehemiah", "ne": "nehemiah",
	// Esther
	"esth": "esther", "est": "esther",
	// Job
	"jb": "job",
	// Psalms
	"ps": "psalms", "psa": "psalms", "psalm": "psalms", "pss": "psalms",
	// Proverbs
	"prov": "proverbs", "pro": "proverbs", "pr": "proverbs",
	// Ecclesiastes
	"eccl": "ecclesiastes", "ecc": "ecclesiastes", "qoheleth": "ecclesiastes",
	// Song of Solomon
	"song": "song of solomon", "song of songs": "song of solomon",
	"sos": "song of solomon", "canticles": "song of solomon",
	// Isaiah
	"isa": "isaiah", "is": "isaiah",
	// Jeremiah
	"jer": "jeremiah", "je": "jeremiah",
	// Lamentations
	"lam": "lamentations", "la": "lamentations",
	// Ezekiel
	"ezek": "ezekiel", "eze": "ezekiel", "ezk": "ezekiel",
	// Daniel
	"dan": "daniel", "da": "daniel", "dn": "daniel",
	// Hosea
	"hos": "hosea", "ho": "hosea",
	// Joel
	"jl": "joel",
	// Amos
	"am": "amos",
	// Obadiah
	"obad": "obadiah", "oba": "obadiah", "ob": "obadiah",
	// Jonah
	"jon": "jonah",
	// Micah
	"mic": "micah", "mi": "micah",
	// Nahum
	"nah": "nahum", "na": "nahum",
	// Habakkuk
	"hab": "habakkuk", "hb": "habakkuk",
	// Zephaniah
	"zeph": "zephaniah", "zep": "zephaniah", "zp": "zephaniah",
	// Haggai
	"hag": "haggai", "hg": "haggai",
	// Zechariah
	"zech": "zechariah", "zec": "zechariah", "zc": "zechariah",
	// Malachi
	"mal": "malachi", "ml": "malachi",
	// Matthew
	"matt": "matthew", "mat": "matthew", "mt": "matthew",
	// Mark
	"mrk": "mark", "mk": "mark", "mr": "mark",
	// Luke
	"luk": "luke", "lk": "luke",
	// John
	"joh": "john", "jn": "john", "jhn": "john",
	// Acts
	"act": "acts", "ac": "acts",
	// Romans
	"rom": "romans", "ro": "romans", "rm": "romans",
	// 1 Corinthians
	"1cor": "1 corinthians", "1 cor": "1 corinthians", "1corinthians": "1 corinthians", "1co": "1 corinthians",
	// 2 Corinthians
	"2cor": "2 corinthians", "2 cor": "2 corinthians", "2corinthians": "2 corinthians", "2co": "2 corinthians",
	// Galatians
	"gal": "galatians", "ga": "galatians",
	// Ephesians
	"eph": "ephesians", "ep": "ephesians",
	// Philippians
	"phil": "philippians", "php": "philippians", "pp": "philippians",
	// Colossians
	"col": "colossians", "co": "colossians",
	// 1 Thessalonians
	"1thess": "1 thessalonians", "1 thess": "1 thessalonians", "1thessalonians": "1 thessalonians", "1th": "1 thessalonians",
	// 2 Thessalonians
	"2thess": "2 thessalonians", "2 thess": "2 thessalonians", "2thessalonians": "2 thessalonians", "2th": "2 thessalonians",
	// 1 Timothy
	"1tim": "1 timothy", "1 tim": "1 timothy", "1timothy": "1 timothy", "1ti": "1 timothy",
	// 2 Timothy
	"2tim": "2 timothy", "2 tim": "2 timothy", "2timothy": "2 timothy", "2ti": "2 timothy",
	// Titus
	"tit": "titus", "ti": "titus",
	// Philemon
	"phlm": "philemon", "phm": "philemon",
	// Hebrews
	"heb": "hebrews", "he": "hebrews",
	// James
	"jas": "james", "jm": "james",
	// 1 Peter
	"1pet": "1 peter", "1 pet": "1 peter", "1peter": "1 peter", "1pe": "1 peter",
	// 2 Peter
	"2pet": "2 peter", "2 pet": "2 peter", "2peter": "2 peter", "2pe": "2 peter",
	// 1 John
	"1john": "1 john", "1 john": "1 john", "1jn": "1 john", "1 jn": "1 john",
	// 2 John
	"2john": "2 john", "2 john": "2 john", "2jn": "2 john", "2 jn": "2 john",
	// 3 John
	"3john": "3 john", "3 john": "3 john", "3jn": "3 john", "3 jn": "3 john",
	// Jude
	"jud": "jude", "jd": "jude",
	// Revelation
	"rev": "revelation", "re": "revelation", "apocalypse": "revelation",
}
