package content

// Every post, newest first, with just enough to route to it and list it.
const listPostsQuery = `*[_type == "post" && defined(slug.current)] | order(_createdAt desc) {
  _id,
  _createdAt,
  title,
  description,
  slug { current }
}`

// One post by slug with its author and approved comments joined.
const postBySlugQuery = `*[_type == "post" && slug.current == $slug][0] {
  _id,
  _createdAt,
  title,
  description,
  slug,
  mainImage,
  body,
  author -> {
    name,
    image
  },
  "comments": *[_type == "comment" && post._ref == ^._id && approved == true] | order(_createdAt asc) {
    _id,
    _createdAt,
    name,
    comment,
    approved
  }
}`
