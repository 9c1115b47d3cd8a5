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
 *  common.go - Funcions bàsiques.
 *
 */

package utils;

import (
  "fmt"
  "os"
  "strconv"
)

/************/
/* FUNCIONS */
/************/

func NumBytesToStr(num_bytes uint64) string {
  if num_bytes > 1024*1024*1024 { // G
    val := float64(num_bytes)/(1024*1024*1024)
    return strconv.FormatFloat ( val, 'f', 1, 32 ) + "G"
  } else if num_bytes > 1024*1024 { // M
    val := float64(num_bytes)/(1024*1024)
    return strconv.FormatFloat ( val, 'f', 1, 32 ) + "M"
  } else if num_bytes > 1024 { // K
    val := float64(num_bytes)/1024
    return strconv.FormatFloat ( val, 'f', 1, 32 ) + "K"
  } else {
    return strconv.FormatUint ( num_bytes, 10 )
  }
} // end NumBytesToStr


// Alinea cap amunt a un múltiple d'align.
func AlignUp(val int64, align int64) int64 {
  if rem := val%align; rem != 0 {
    val+= align - rem
  }
  return val
} // end AlignUp


func Warning(format string, args ...any) {
  fmt.Fprintf ( os.Stderr, "[WW] " )
  fmt.Fprintf ( os.Stderr, format, args... )
  fmt.Fprintf ( os.Stderr, "\n" )
}
