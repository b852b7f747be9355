package anilist

// GraphQL documents for the AniList API. The wire format follows the
// provider's schema and is assumed stable.

const queryCharactersFromAnime = `
query ($animeId: Int!, $page: Int!) {
  Media (id: $animeId){
    characters(sort:FAVOURITES_DESC, page: $page, perPage: 25) {
      edges {
        node {
          id
          name {
            first
            last
            native
            alternative
          }
          image {
            large
          }
          gender
          age
          favourites
        }
        role
      },
      pageInfo {
        hasNextPage
      }
    }
  }
}
`

const queryAnimesFromUser = `
query ($userName: String!, $chunk: Int!, $perChunk: Int!) {
  MediaListCollection (
    userName: $userName,
    type: ANIME,
    sort: SCORE_DESC,
    chunk: $chunk,
    perChunk: $perChunk,
    status_not: PLANNING
  ) {
    lists {
      status,
      entries {
        score(format: POINT_10_DECIMAL),
        progress,
        private,
        completedAt {
          year
          month
        },
        media {
          id,
          title {
            romaji,
            english,
            native
          },
          status,
          episodes,
          coverImage {
            large
          },
          bannerImage
        }
      }
    },
    hasNextChunk
  }
}
`

const queryUserInfo = `
query ($userName: String!) {
  User (name: $userName) {
    id,
    name,
    about,
    avatar {
      large
    },
    options {
      titleLanguage
    },
    statistics {
      anime {
        count,
        meanScore,
        episodesWatched
      }
    }
  }
}
`
