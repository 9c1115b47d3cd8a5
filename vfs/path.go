/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  path.go - Manipulació de paths. Els paths s'accepten amb barres
 *            cap avant o cap arrere i es normalitzen a llistes de
 *            segments. Les comparacions sols pleguen les majúscules
 *            ASCII; la resta de caràcters es comparen tal qual.
 */

package vfs

import (
  "strings"
)


/************/
/* FUNCIONS */
/************/

// Les lletres majúscules ASCII es passen a minúscules byte a byte.
func toLowerASCII( s string ) string {

  buf:= []byte(s)
  for i:= 0; i < len(buf); i++ {
    if buf[i] >= 'A' && buf[i] <= 'Z' {
      buf[i]+= 'a'-'A'
    }
  }

  return string(buf)

} // end toLowerASCII


func foldEqual( a string, b string ) bool {
  return toLowerASCII ( a ) == toLowerASCII ( b )
} // end foldEqual


func isAbs( path string ) bool {
  return len(path) > 0 && (path[0] == '/' || path[0] == '\\')
} // end isAbs


// Divideix el path en segments i el normalitza: descarta els
// segments buits i els ".", i un ".." lleva l'últim segment (en
// l'arrel no fa res). Si el path no és absolut es resol respecte
// cwd.
func splitPath( path string, cwd []string ) []string {

  var ret []string
  if !isAbs ( path ) {
    ret= append(ret,cwd...)
  }
  raw:= strings.FieldsFunc ( path, func(c rune) bool {
    return c == '/' || c == '\\'
  })
  for _,seg:= range raw {
    switch seg {
    case ".":
    case "..":
      if len(ret) > 0 {
        ret= ret[:len(ret)-1]
      }
    default:
      ret= append(ret,seg)
    }
  }

  return ret

} // end splitPath


// Torna el path absolut amb barres cap avant.
func joinAbs( segs []string ) string {
  return "/" + strings.Join ( segs, "/" )
} // end joinAbs


// Clau canònica d'un path: el path absolut en minúscules ASCII.
func pathKey( segs []string ) string {
  return toLowerASCII ( joinAbs ( segs ) )
} // end pathKey
