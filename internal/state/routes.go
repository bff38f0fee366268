package state

// RouteID identifies a screen in the navigation stack.
type RouteID int

const (
	RouteHome RouteID = iota
	RouteError
	RouteSearch
	RouteTrackTable
	RouteAlbumTracks
	RouteAlbumList
	RouteArtist
	RouteArtists
	RouteMadeForYou
	RouteRecentlyPlayed
	RouteRecommendations
	RouteSelectedDevice
	RouteAnalysis
)

func (r RouteID) String() string {
	switch r {
	case RouteHome:
		return "home"
	case RouteError:
		return "error"
	case RouteSearch:
		return "search"
	case RouteTrackTable:
		return "track_table"
	case RouteAlbumTracks:
		return "album_tracks"
	case RouteAlbumList:
		return "album_list"
	case RouteArtist:
		return "artist"
	case RouteArtists:
		return "artists"
	case RouteMadeForYou:
		return "made_for_you"
	case RouteRecentlyPlayed:
		return "recently_played"
	case RouteRecommendations:
		return "recommendations"
	case RouteSelectedDevice:
		return "selected_device"
	case RouteAnalysis:
		return "analysis"
	default:
		return ""
	}
}

// ActiveBlock is the panel that has focus within a route.
type ActiveBlock int

const (
	BlockHome ActiveBlock = iota
	BlockEmpty
	BlockError
	BlockInput
	BlockLibrary
	BlockMyPlaylists
	BlockSearchResults
	BlockTrackTable
	BlockAlbumTracks
	BlockAlbumList
	BlockArtist
	BlockArtists
	BlockMadeForYou
	BlockRecentlyPlayed
	BlockSelectDevice
	BlockAnalysis
	BlockPlayBar
)

func (b ActiveBlock) String() string {
	switch b {
	case BlockHome:
		return "home"
	case BlockEmpty:
		return "empty"
	case BlockError:
		return "error"
	case BlockInput:
		return "input"
	case BlockLibrary:
		return "library"
	case BlockMyPlaylists:
		return "my_playlists"
	case BlockSearchResults:
		return "search_results"
	case BlockTrackTable:
		return "track_table"
	case BlockAlbumTracks:
		return "album_tracks"
	case BlockAlbumList:
		return "album_list"
	case BlockArtist:
		return "artist"
	case BlockArtists:
		return "artists"
	case BlockMadeForYou:
		return "made_for_you"
	case BlockRecentlyPlayed:
		return "recently_played"
	case BlockSelectDevice:
		return "select_device"
	case BlockAnalysis:
		return "analysis"
	case BlockPlayBar:
		return "play_bar"
	default:
		return ""
	}
}

// Route is one navigation stack entry.
type Route struct {
	ID          RouteID
	ActiveBlock ActiveBlock
}

// TrackTableContext records which list the track table is showing.
type TrackTableContext int

const (
	TableNone TrackTableContext = iota
	TableMyPlaylists
	TableSavedTracks
	TableSearchResults
	TableRecommendedTracks
	TableMadeForYou
)

func (c TrackTableContext) String() string {
	switch c {
	case TableMyPlaylists:
		return "my_playlists"
	case TableSavedTracks:
		return "saved_tracks"
	case TableSearchResults:
		return "search_results"
	case TableRecommendedTracks:
		return "recommended_tracks"
	case TableMadeForYou:
		return "made_for_you"
	default:
		return "none"
	}
}

// AlbumTableContext records whether the album view holds a simplified or a full album.
type AlbumTableContext int

const (
	AlbumSimplified AlbumTableContext = iota
	AlbumFull
)

func (c AlbumTableContext) String() string {
	if c == AlbumFull {
		return "full"
	}
	return "simplified"
}
